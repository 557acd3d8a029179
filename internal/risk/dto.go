package risk

// ProductInput is the request shape; pointers let validation tell a missing field from a zero.
type ProductInput struct {
	ProductID       *int64   `json:"product_id" validate:"required"`
	Category        *string  `json:"category" validate:"required"`
	Brand           *string  `json:"brand" validate:"required"`
	Department      *string  `json:"department" validate:"required"`
	Price           *float64 `json:"price" validate:"required"`
	DiscountPct     *float64 `json:"discount_pct" validate:"required"`
	CustomerAge     *int     `json:"customer_age" validate:"required"`
	CustomerCountry *string  `json:"customer_country" validate:"required"`
}

type PredictRequest struct {
	Products []ProductInput `json:"products" validate:"required,dive"`
}

type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// Input converts a validated request item; nil fields become zero values.
func (p ProductInput) Input() Input {
	return Input{
		ProductID:       deref(p.ProductID),
		Category:        deref(p.Category),
		Brand:           deref(p.Brand),
		Department:      deref(p.Department),
		Price:           deref(p.Price),
		DiscountPct:     deref(p.DiscountPct),
		CustomerAge:     deref(p.CustomerAge),
		CustomerCountry: deref(p.CustomerCountry),
	}
}

// Inputs converts every product in request order.
func (r PredictRequest) Inputs() []Input {
	out := make([]Input, 0, len(r.Products))
	for _, p := range r.Products {
		out = append(out, p.Input())
	}
	return out
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
