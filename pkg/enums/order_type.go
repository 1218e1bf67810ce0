package enums

// OrderType describes how an order is fulfilled. TABLE orders need a table
// code, DELIVERY orders an address; TAKEAWAY needs neither.
type OrderType string

const (
	OrderTypeTable    OrderType = "TABLE"
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypeTakeaway OrderType = "TAKEAWAY"
)

var orderTypes = closedSet[OrderType]{
	label:  "order type",
	values: []OrderType{OrderTypeTable, OrderTypeDelivery, OrderTypeTakeaway},
}

func (t OrderType) String() string { return string(t) }

func (t OrderType) IsValid() bool { return orderTypes.contains(t) }

func ParseOrderType(value string) (OrderType, error) { return orderTypes.parse(value) }
