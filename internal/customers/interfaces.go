package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
)

// Repository defines persistence for delivery customers and their
// neighborhood fees.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByPhone(ctx context.Context, restaurantID uuid.UUID, phone string) (*models.Customer, error)
	Search(ctx context.Context, restaurantID uuid.UUID, query string, limit int) ([]models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindDeliveryFee(ctx context.Context, restaurantID uuid.UUID, neighborhood string) (*models.DeliveryFee, error)
	ListDeliveryFees(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryFee, error)
}

// Service resolves customer identity and delivery charges during intake.
type Service interface {
	Search(ctx context.Context, restaurantID uuid.UUID, query string) ([]models.Customer, error)
	Resolve(ctx context.Context, input ResolveInput) (*models.Customer, error)
	FeeFor(ctx context.Context, restaurantID uuid.UUID, neighborhood string) (*models.DeliveryFee, error)
	ListFees(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryFee, error)
}
