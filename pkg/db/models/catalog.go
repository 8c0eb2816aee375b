package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products on the order builder.
type Category struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Icon         *string   `gorm:"column:icon"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Product is a sellable catalog item. Size prices are nullable; any subset
// of the triplet may be present when HasSizes is set.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable  bool             `gorm:"column:is_available;not null;default:true"`
	HasSizes     bool             `gorm:"column:has_sizes;not null;default:false"`
	PriceSmall   *decimal.Decimal `gorm:"column:price_small;type:numeric(10,2)"`
	PriceMedium  *decimal.Decimal `gorm:"column:price_medium;type:numeric(10,2)"`
	PriceLarge   *decimal.Decimal `gorm:"column:price_large;type:numeric(10,2)"`
	AddonGroups  []AddonGroup     `gorm:"many2many:product_addon_groups"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// AddonGroup bundles selectable addons offered with linked products.
type AddonGroup struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Addons       []Addon   `gorm:"foreignKey:GroupID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Addon is a priced extra inside a group.
type Addon struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID   uuid.UUID       `gorm:"column:group_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
