package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/pkg/enums"
)

// Table is a physical floor table.
type Table struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Number       int              `gorm:"column:number;not null"`
	Status       enums.UnitStatus `gorm:"column:status;not null;default:'available'"`
	Capacity     *int             `gorm:"column:capacity"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Tab is a running customer tab (comanda), optionally bound to a customer
// identity while occupied.
type Tab struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID  uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Number        int              `gorm:"column:number;not null"`
	Status        enums.UnitStatus `gorm:"column:status;not null;default:'available'"`
	CustomerName  *string          `gorm:"column:customer_name"`
	CustomerPhone *string          `gorm:"column:customer_phone"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Waiter is a staff member who authenticates by PIN.
type Waiter struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string             `gorm:"column:name;not null"`
	PINHash      string             `gorm:"column:pin_hash;not null"`
	Status       enums.WaiterStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
