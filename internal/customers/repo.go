// Package customers keeps delivery contact records and the flat fee
// charged per neighborhood.
package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByPhone(ctx context.Context, restaurantID uuid.UUID, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND phone = ?", restaurantID, phone).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Search(ctx context.Context, restaurantID uuid.UUID, query string, limit int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.TrimSpace(query) + "%"
	var found []models.Customer
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND (phone LIKE ? OR LOWER(name) LIKE LOWER(?))", restaurantID, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindDeliveryFee(ctx context.Context, restaurantID uuid.UUID, neighborhood string) (*models.DeliveryFee, error) {
	var fee models.DeliveryFee
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND LOWER(neighborhood) = LOWER(?)", restaurantID, strings.TrimSpace(neighborhood)).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *repository) ListDeliveryFees(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryFee, error) {
	var fees []models.DeliveryFee
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("neighborhood ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}
