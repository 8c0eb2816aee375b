package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// Repository defines persistence operations for orders and settlements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextOrderNumber(ctx context.Context, restaurantID uuid.UUID) (int, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOpenByUnit(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey) ([]models.Order, error)
	ListByStatus(ctx context.Context, restaurantID uuid.UUID, statuses []enums.OrderStatus) ([]models.Order, error)
	ReadyCounts(ctx context.Context, restaurantID uuid.UUID) (map[floor.UnitKey]int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	CloseOpenByUnit(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey, updates map[string]any) (int64, error)
	CreateSettlementPayments(ctx context.Context, payments []models.SettlementPayment) error
}

// Service submits, advances, and settles orders.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
	BillFor(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey) (*Bill, error)
	AdvanceStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status enums.OrderStatus) error
	Close(ctx context.Context, input CloseInput) error
}
