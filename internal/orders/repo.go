package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) NextOrderNumber(ctx context.Context, restaurantID uuid.UUID) (int, error) {
	var current int
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOpenByUnit(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey) ([]models.Order, error) {
	var orders []models.Order
	err := unitScope(r.db.WithContext(ctx), unit).
		Preload("Items").
		Where("restaurant_id = ? AND status IN ?", restaurantID, enums.OpenOrderStatuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByStatus(ctx context.Context, restaurantID uuid.UUID, statuses []enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ? AND status IN ?", restaurantID, statuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ReadyCounts(ctx context.Context, restaurantID uuid.UUID) (map[floor.UnitKey]int, error) {
	type row struct {
		TableID *uuid.UUID
		TabID   *uuid.UUID
		Count   int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("table_id, tab_id, COUNT(*) AS count").
		Where("restaurant_id = ? AND status = ?", restaurantID, enums.OrderStatusReady).
		Group("table_id, tab_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[floor.UnitKey]int, len(rows))
	for _, r := range rows {
		switch {
		case r.TableID != nil:
			counts[floor.TableKey(*r.TableID)] += r.Count
		case r.TabID != nil:
			counts[floor.TabKey(*r.TabID)] += r.Count
		}
	}
	return counts, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) CloseOpenByUnit(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey, updates map[string]any) (int64, error) {
	result := unitScope(r.db.WithContext(ctx), unit).
		Model(&models.Order{}).
		Where("restaurant_id = ? AND status IN ?", restaurantID, enums.OpenOrderStatuses).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateSettlementPayments(ctx context.Context, payments []models.SettlementPayment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&payments).Error
}

func unitScope(db *gorm.DB, unit floor.UnitKey) *gorm.DB {
	if unit.Kind == floor.KindTab {
		return db.Where("tab_id = ?", unit.ID)
	}
	return db.Where("table_id = ?", unit.ID)
}
