package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
)

// Repository defines persistence operations for waiters.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Waiter, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Waiter, error)
	Create(ctx context.Context, waiter *models.Waiter) (*models.Waiter, error)
}

// Service authenticates waiters by PIN.
type Service interface {
	Authenticate(ctx context.Context, restaurantID uuid.UUID, pin string) (*models.Waiter, error)
	Enroll(ctx context.Context, restaurantID uuid.UUID, name, pin string) (*models.Waiter, error)
}
