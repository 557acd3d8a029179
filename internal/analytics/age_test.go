package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwaylab/outcomes-lab-backend/pkg/db/dbtest"
)

func TestAgeBandCaseCoversEveryAge(t *testing.T) {
	conn := dbtest.OpenEmpty(t)
	cases := map[int]string{
		0: "Under 18", 17: "Under 18",
		18: "18-24", 24: "18-24",
		25: "25-34", 34: "25-34",
		35: "35-44", 44: "35-44",
		45: "45-54", 54: "45-54",
		55: "55-64", 64: "55-64",
		65: "65+", 120: "65+",
	}
	query := "SELECT " + ageBandCase("u.age") + " AS band FROM (SELECT ? AS age) u"
	for age, want := range cases {
		var band string
		require.NoError(t, conn.Raw(query, age).Scan(&band).Error)
		assert.Equal(t, want, band, "age %d", age)
	}
}

func TestAgeBandCaseMatchesTable(t *testing.T) {
	sql := ageBandCase("u.age")
	assert.Equal(t, "CASE WHEN u.age < 18 THEN 'Under 18' WHEN u.age < 25 THEN '18-24' WHEN u.age < 35 THEN '25-34'"+
		" WHEN u.age < 45 THEN '35-44' WHEN u.age < 55 THEN '45-54' WHEN u.age < 65 THEN '55-64' ELSE '65+' END", sql)
}

func TestSortByAgeBand(t *testing.T) {
	rows := []AgeDistribution{{AgeRange: "65+"}, {AgeRange: "Under 18"}, {AgeRange: "25-34"}}
	sortByAgeBand(rows)
	assert.Equal(t, []string{"Under 18", "25-34", "65+"}, []string{rows[0].AgeRange, rows[1].AgeRange, rows[2].AgeRange})
}
