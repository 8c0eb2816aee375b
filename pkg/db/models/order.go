package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/pkg/enums"
)

// Order is a submitted kitchen order. Exactly one of TableID/TabID is set
// for floor orders; both are nil for delivery and takeaway.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID    uuid.UUID            `gorm:"column:restaurant_id;type:uuid;not null;index"`
	OrderNumber     int                  `gorm:"column:order_number;not null"`
	TableID         *uuid.UUID           `gorm:"column:table_id;type:uuid;index"`
	TabID           *uuid.UUID           `gorm:"column:tab_id;type:uuid;index"`
	WaiterID        *uuid.UUID           `gorm:"column:waiter_id;type:uuid"`
	OrderType       enums.OrderType      `gorm:"column:order_type;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:'pending';index"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Notes           *string              `gorm:"column:notes"`
	CustomerID      *uuid.UUID           `gorm:"column:customer_id;type:uuid"`
	CustomerName    *string              `gorm:"column:customer_name"`
	DeliveryAddress *string              `gorm:"column:delivery_address"`
	DeliveryPhone   *string              `gorm:"column:delivery_phone"`
	DeliveryFee     decimal.Decimal      `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	PaymentMethod   *enums.PaymentMethod `gorm:"column:payment_method"`
	CashReceived    *decimal.Decimal     `gorm:"column:cash_received;type:numeric(10,2)"`
	ChangeGiven     *decimal.Decimal     `gorm:"column:change_given;type:numeric(10,2)"`
	SplitPeople     *int                 `gorm:"column:split_people"`
	ClosedAt        *time.Time           `gorm:"column:closed_at"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a priced line snapshot frozen at submission time; catalog
// edits after submission never touch it.
type OrderItem struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null"`
	ProductID    uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	CategoryID   *uuid.UUID         `gorm:"column:category_id;type:uuid"`
	ProductName  string             `gorm:"column:product_name;not null"`
	ProductPrice decimal.Decimal    `gorm:"column:product_price;type:numeric(10,2);not null"`
	ProductSize  *enums.ProductSize `gorm:"column:product_size"`
	Quantity     int                `gorm:"column:quantity;not null"`
	Notes        *string            `gorm:"column:notes"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// SettlementPayment is one tender entry recorded when a bill is closed in
// mixed mode. Exactly one of TableID/TabID is set.
type SettlementPayment struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	TableID      *uuid.UUID          `gorm:"column:table_id;type:uuid;index"`
	TabID        *uuid.UUID          `gorm:"column:tab_id;type:uuid;index"`
	Method       enums.PaymentMethod `gorm:"column:method;not null"`
	Amount       decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	PaidBy       *string             `gorm:"column:paid_by"`
	CashReceived *decimal.Decimal    `gorm:"column:cash_received;type:numeric(10,2)"`
	ChangeGiven  *decimal.Decimal    `gorm:"column:change_given;type:numeric(10,2)"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// Customer is a delivery/takeaway contact record.
type Customer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Phone        string    `gorm:"column:phone;not null;index"`
	Address      *string   `gorm:"column:address"`
	Number       *string   `gorm:"column:number"`
	Complement   *string   `gorm:"column:complement"`
	Neighborhood *string   `gorm:"column:neighborhood"`
	City         *string   `gorm:"column:city"`
	CEP          *string   `gorm:"column:cep"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// DeliveryFee maps a neighborhood to its flat delivery charge.
type DeliveryFee struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Neighborhood string          `gorm:"column:neighborhood;not null"`
	Fee          decimal.Decimal `gorm:"column:fee;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
