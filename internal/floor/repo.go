package floor

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a floor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]models.Table, error) {
	var tables []models.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *repository) ListTabs(ctx context.Context, restaurantID uuid.UUID) ([]models.Tab, error) {
	var tabs []models.Tab
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("number ASC").
		Find(&tabs).Error
	if err != nil {
		return nil, err
	}
	return tabs, nil
}

func (r *repository) FindTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) FindTab(ctx context.Context, id uuid.UUID) (*models.Tab, error) {
	var tab models.Tab
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tab).Error; err != nil {
		return nil, err
	}
	return &tab, nil
}

func (r *repository) UpdateTableStatus(ctx context.Context, id uuid.UUID, status enums.UnitStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) UpdateTabStatus(ctx context.Context, id uuid.UUID, status enums.UnitStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Tab{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) BindTabCustomer(ctx context.Context, id uuid.UUID, name, phone string) error {
	updates := map[string]any{
		"customer_name":  nil,
		"customer_phone": nil,
	}
	if name != "" {
		updates["customer_name"] = name
	}
	if phone != "" {
		updates["customer_phone"] = phone
	}
	return r.db.WithContext(ctx).
		Model(&models.Tab{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ClearTabCustomer(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Tab{}).
		Where("id = ?", id).
		Updates(map[string]any{"customer_name": nil, "customer_phone": nil}).Error
}
