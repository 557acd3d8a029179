package analytics

import (
	"strconv"
	"strings"
)

// ageBand covers [min, max); max == 0 means unbounded.
type ageBand struct {
	label string
	max   int
}

var ageBands = []ageBand{
	{label: "Under 18", max: 18},
	{label: "18-24", max: 25},
	{label: "25-34", max: 35},
	{label: "35-44", max: 45},
	{label: "45-54", max: 55},
	{label: "55-64", max: 65},
	{label: "65+"},
}

// ageBandCase renders the band table as a SQL CASE over column.
func ageBandCase(column string) string {
	var b strings.Builder
	b.WriteString("CASE")
	last := len(ageBands) - 1
	for _, band := range ageBands[:last] {
		b.WriteString(" WHEN " + column + " < " + strconv.Itoa(band.max) + " THEN '" + band.label + "'")
	}
	b.WriteString(" ELSE '" + ageBands[last].label + "' END")
	return b.String()
}

func ageBandIndex(label string) int {
	for i, band := range ageBands {
		if band.label == label {
			return i
		}
	}
	return len(ageBands)
}
