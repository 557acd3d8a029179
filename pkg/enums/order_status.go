package enums

import "fmt"

// OrderStatus is the lifecycle label carried by orders and their items. Stored values are
// open-ended text; these are the ones the dataset and the reports know about.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusComplete   OrderStatus = "Complete"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusReturned   OrderStatus = "Returned"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusComplete,
	OrderStatusShipped,
	OrderStatusProcessing,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// OrderStatuses lists every known status in a stable order.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), validOrderStatuses...)
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus. Matching is exact, as in storage.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// HasShipped reports whether an order in this status left the warehouse.
func (s OrderStatus) HasShipped() bool {
	switch s {
	case OrderStatusShipped, OrderStatusComplete, OrderStatusReturned:
		return true
	}
	return false
}

// HasDelivered reports whether an order in this status reached the customer.
func (s OrderStatus) HasDelivered() bool {
	return s == OrderStatusComplete || s == OrderStatusReturned
}
