package floor

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// Repository defines persistence operations for floor tables and tabs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]models.Table, error)
	ListTabs(ctx context.Context, restaurantID uuid.UUID) ([]models.Tab, error)
	FindTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
	FindTab(ctx context.Context, id uuid.UUID) (*models.Tab, error)
	UpdateTableStatus(ctx context.Context, id uuid.UUID, status enums.UnitStatus) error
	UpdateTabStatus(ctx context.Context, id uuid.UUID, status enums.UnitStatus) error
	BindTabCustomer(ctx context.Context, id uuid.UUID, name, phone string) error
	ClearTabCustomer(ctx context.Context, id uuid.UUID) error
}
