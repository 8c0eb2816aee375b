// Package staff authenticates waiters by their numeric PIN.
package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a staff repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Waiter, error) {
	var waiters []models.Waiter
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Find(&waiters).Error
	if err != nil {
		return nil, err
	}
	return waiters, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Waiter, error) {
	var waiter models.Waiter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&waiter).Error; err != nil {
		return nil, err
	}
	return &waiter, nil
}

func (r *repository) Create(ctx context.Context, waiter *models.Waiter) (*models.Waiter, error) {
	if err := r.db.WithContext(ctx).Create(waiter).Error; err != nil {
		return nil, err
	}
	return waiter, nil
}
