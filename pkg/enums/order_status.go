package enums

import "slices"

// OrderStatus tracks the kitchen lifecycle of a customer order.
//
// The intended lifecycle is NEW -> IN_PROGRESS -> READY -> COMPLETED, one step at a time.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// orderStatuses is kept in lifecycle order.
var orderStatuses = closedSet[OrderStatus]{
	label:  "order status",
	values: []OrderStatus{OrderStatusNew, OrderStatusInProgress, OrderStatusReady, OrderStatusCompleted},
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool { return orderStatuses.contains(s) }

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

// Next returns the following status in the lifecycle, or false when terminal or unknown.
func (s OrderStatus) Next() (OrderStatus, bool) {
	pos := slices.Index(orderStatuses.values, s)
	if pos < 0 || pos == len(orderStatuses.values)-1 {
		return "", false
	}
	return orderStatuses.values[pos+1], true
}

// CanAdvanceTo reports whether target is exactly one step forward from s.
func (s OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

func ParseOrderStatus(value string) (OrderStatus, error) { return orderStatuses.parse(value) }
