package enums

import "fmt"

// OrderStatus tracks the lifecycle of a marketplace order.
type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "created"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusInProgress     OrderStatus = "in_progress"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusDisputed       OrderStatus = "disputed"
	OrderStatusResolvedBuyer  OrderStatus = "resolved_buyer"
	OrderStatusResolvedSeller OrderStatus = "resolved_seller"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusPaid,
	OrderStatusAccepted,
	OrderStatusInProgress,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusDisputed,
	OrderStatusResolvedBuyer,
	OrderStatusResolvedSeller,
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

// IsTerminal reports whether the status is immutable once reached.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded,
		OrderStatusResolvedBuyer, OrderStatusResolvedSeller:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
