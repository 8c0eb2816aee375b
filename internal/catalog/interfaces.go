package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
)

// Repository defines the read operations the order builder needs from
// the catalog. Catalog writes happen in the back office, not here.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.Category, error)
	ListAvailableProducts(ctx context.Context, restaurantID uuid.UUID) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, restaurantID, categoryID uuid.UUID) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
