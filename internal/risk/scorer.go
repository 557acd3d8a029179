package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

type Label string

const (
	LabelLow    Label = "Low"
	LabelMedium Label = "Medium"
	LabelHigh   Label = "High"
)

const (
	baseRisk         = 0.15
	priceCeiling     = 200.0
	priceWeight      = 0.15
	discountWeight   = 0.20
	youngAgeCutoff   = 30.0
	ageWeight        = 0.10
	probabilityCap   = 0.95
	lowThreshold     = 0.20
	mediumThreshold  = 0.40
	probabilityPlace = 3
)

// Input is one product purchase context. Category, brand, department and country are
// carried for callers but do not affect the heuristic.
type Input struct {
	ProductID       int64
	Category        string
	Brand           string
	Department      string
	Price           float64
	DiscountPct     float64
	CustomerAge     int
	CustomerCountry string
}

type Prediction struct {
	ProductID         int64   `json:"product_id"`
	ReturnProbability float64 `json:"return_probability"`
	RiskLabel         Label   `json:"risk_label"`
}

// Scorer estimates the return probability of each input independently, preserving order.
type Scorer interface {
	Predict(inputs []Input) []Prediction
}

// Heuristic is the rule-based scorer. It holds no state and is safe for concurrent use.
type Heuristic struct{}

func NewHeuristic() Heuristic {
	return Heuristic{}
}

func (Heuristic) Predict(inputs []Input) []Prediction {
	out := make([]Prediction, 0, len(inputs))
	for _, in := range inputs {
		p := Probability(in)
		out = append(out, Prediction{
			ProductID:         in.ProductID,
			ReturnProbability: round(p),
			RiskLabel:         LabelFor(p),
		})
	}
	return out
}

// Probability returns the unrounded heuristic estimate, capped at 0.95.
func Probability(in Input) float64 {
	priceFactor := math.Min(in.Price/priceCeiling, 1.0) * priceWeight
	discountFactor := (in.DiscountPct / 100.0) * discountWeight
	ageFactor := math.Max(0, (youngAgeCutoff-float64(in.CustomerAge))/youngAgeCutoff) * ageWeight
	return math.Min(baseRisk+priceFactor+discountFactor+ageFactor, probabilityCap)
}

func LabelFor(p float64) Label {
	switch {
	case p < lowThreshold:
		return LabelLow
	case p < mediumThreshold:
		return LabelMedium
	default:
		return LabelHigh
	}
}

// round rounds the exact binary value of p half to even, so 0.1525 (stored just below the
// midpoint) becomes 0.152.
func round(p float64) float64 {
	return decimal.NewFromFloatWithExponent(p, -30).RoundBank(probabilityPlace).InexactFloat64()
}
