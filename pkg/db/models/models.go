package models

// All lists the schema models in load order.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderItem{}}
}
