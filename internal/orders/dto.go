package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/cart"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// SubmitInput is everything needed to turn a cart into a kitchen order.
type SubmitInput struct {
	RestaurantID uuid.UUID
	WaiterID     *uuid.UUID
	OrderType    enums.OrderType
	Unit         *floor.UnitKey
	Lines        []cart.Line
	OrderNotes   string

	// customer contact: delivery, takeaway, or the opening tab order
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	DeliveryPhone   string
	DeliveryFee     decimal.Decimal
}

// CloseInput settles and closes every open order on a service unit.
type CloseInput struct {
	RestaurantID uuid.UUID
	WaiterID     *uuid.UUID
	Unit         floor.UnitKey
	Settlement   *settlement.Settlement
}

// Bill is the running total for a service unit's open orders.
type Bill struct {
	Unit   floor.UnitKey
	Orders []BillOrder
	Total  decimal.Decimal
}

// BillOrder is one open order inside a bill.
type BillOrder struct {
	ID          uuid.UUID
	OrderNumber int
	Status      enums.OrderStatus
	Total       decimal.Decimal
}
