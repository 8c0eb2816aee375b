package enums

// UnitStatus is the floor status of a table or tab.
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusOccupied  UnitStatus = "occupied"
	UnitStatusClosing   UnitStatus = "closing"
)

// OrderStatus tracks an order through the kitchen and delivery lifecycle.
// Transitions past "pending" are driven by kitchen/delivery workflows;
// "closed" is set exclusively by bill settlement.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusClosed    OrderStatus = "closed"
)

// OpenOrderStatuses are the statuses that keep an order on the bill.
var OpenOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
}

// IsTerminal reports whether the status removes the order from the bill.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusClosed:
		return true
	}
	return false
}

// OrderType distinguishes how an order reaches the customer.
type OrderType string

const (
	OrderTypeTable    OrderType = "table"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeaway OrderType = "takeaway"
)

// PaymentMethod is a tender accepted at settlement.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
)

// Valid reports whether the method is one of the accepted tenders.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentPix:
		return true
	}
	return false
}

// ProductSize is an optional size variant on a product.
type ProductSize string

const (
	SizeSmall  ProductSize = "small"
	SizeMedium ProductSize = "medium"
	SizeLarge  ProductSize = "large"
)

// Label returns the short receipt label for a size.
func (s ProductSize) Label() string {
	switch s {
	case SizeSmall:
		return "P"
	case SizeMedium:
		return "M"
	case SizeLarge:
		return "G"
	}
	return ""
}

// WaiterStatus gates PIN login.
type WaiterStatus string

const (
	WaiterStatusActive   WaiterStatus = "active"
	WaiterStatusInactive WaiterStatus = "inactive"
)
