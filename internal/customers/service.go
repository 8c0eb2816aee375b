package customers

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/errors"
)

// ResolveInput carries the contact data collected on the delivery intake
// screen. CustomerID wins when set; otherwise the phone number matches or
// creates a record.
type ResolveInput struct {
	RestaurantID uuid.UUID
	CustomerID   *uuid.UUID
	Name         string
	Phone        string
	Address      string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	CEP          string
}

type service struct {
	repo Repository
}

// NewService builds the customer resolution service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Search(ctx context.Context, restaurantID uuid.UUID, query string) ([]models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	found, err := s.repo.Search(ctx, restaurantID, query, 10)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "searching customers")
	}
	return found, nil
}

// Resolve returns the customer for a delivery order, creating the record
// on first contact and refreshing the stored address when the intake form
// carries a new one.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*models.Customer, error) {
	if input.CustomerID != nil {
		customer, err := s.repo.FindByID(ctx, *input.CustomerID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New(errors.CodeNotFound, "customer not found")
			}
			return nil, errors.Wrap(errors.CodeDependency, err, "loading customer")
		}
		return s.refreshAddress(ctx, customer, input)
	}

	phone := strings.TrimSpace(input.Phone)
	name := strings.TrimSpace(input.Name)
	if phone == "" || name == "" {
		return nil, errors.New(errors.CodeValidation, "delivery orders need a customer name and phone")
	}

	customer, err := s.repo.FindByPhone(ctx, input.RestaurantID, phone)
	if err == nil {
		return s.refreshAddress(ctx, customer, input)
	}
	if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up customer by phone")
	}

	created, err := s.repo.Create(ctx, &models.Customer{
		RestaurantID: input.RestaurantID,
		Name:         name,
		Phone:        phone,
		Address:      optional(input.Address),
		Number:       optional(input.Number),
		Complement:   optional(input.Complement),
		Neighborhood: optional(input.Neighborhood),
		City:         optional(input.City),
		CEP:          optional(input.CEP),
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating customer")
	}
	return created, nil
}

func (s *service) FeeFor(ctx context.Context, restaurantID uuid.UUID, neighborhood string) (*models.DeliveryFee, error) {
	neighborhood = strings.TrimSpace(neighborhood)
	if neighborhood == "" {
		return nil, nil
	}
	fee, err := s.repo.FindDeliveryFee(ctx, restaurantID, neighborhood)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "loading delivery fee")
	}
	return fee, nil
}

func (s *service) ListFees(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryFee, error) {
	fees, err := s.repo.ListDeliveryFees(ctx, restaurantID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing delivery fees")
	}
	return fees, nil
}

func (s *service) refreshAddress(ctx context.Context, customer *models.Customer, input ResolveInput) (*models.Customer, error) {
	updates := map[string]any{}
	apply := func(column, value string, current *string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if current == nil || *current != value {
			updates[column] = value
		}
	}
	apply("address", input.Address, customer.Address)
	apply("number", input.Number, customer.Number)
	apply("complement", input.Complement, customer.Complement)
	apply("neighborhood", input.Neighborhood, customer.Neighborhood)
	apply("city", input.City, customer.City)
	apply("cep", input.CEP, customer.CEP)
	if len(updates) == 0 {
		return customer, nil
	}
	if err := s.repo.Update(ctx, customer.ID, updates); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating customer address")
	}
	refreshed, err := s.repo.FindByID(ctx, customer.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reloading customer")
	}
	return refreshed, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
