package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/pkg/config"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
	"github.com/mesalivre/pos-backend/pkg/security"
)

type service struct {
	repo Repository
	pin  config.PINConfig
	log  *logger.Logger
}

// NewService builds the staff authentication service.
func NewService(repo Repository, pin config.PINConfig, log *logger.Logger) Service {
	return &service{repo: repo, pin: pin, log: log}
}

// Authenticate matches the PIN against the restaurant's waiters. An
// unrecognized PIN and an inactive waiter fail differently so the login
// screen can say which happened.
func (s *service) Authenticate(ctx context.Context, restaurantID uuid.UUID, pin string) (*models.Waiter, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, errors.New(errors.CodeValidation, "pin is required")
	}

	waiters, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading waiters")
	}

	for i := range waiters {
		waiter := &waiters[i]
		match, err := security.VerifyPIN(pin, waiter.PINHash)
		if err != nil {
			s.log.Warn(s.log.WithWaiterID(ctx, waiter.ID.String()), "skipping waiter with malformed pin hash")
			continue
		}
		if !match {
			continue
		}
		if waiter.Status != enums.WaiterStatusActive {
			return nil, errors.New(errors.CodeForbidden, "waiter is inactive")
		}
		return waiter, nil
	}
	return nil, errors.New(errors.CodeUnauthorized, "pin not recognized")
}

// Enroll registers a waiter with a hashed PIN.
func (s *service) Enroll(ctx context.Context, restaurantID uuid.UUID, name, pin string) (*models.Waiter, error) {
	name = strings.TrimSpace(name)
	pin = strings.TrimSpace(pin)
	if name == "" || pin == "" {
		return nil, errors.New(errors.CodeValidation, "name and pin are required")
	}

	hash, err := security.HashPIN(pin, s.pin)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing pin")
	}
	waiter, err := s.repo.Create(ctx, &models.Waiter{
		RestaurantID: restaurantID,
		Name:         name,
		PINHash:      hash,
		Status:       enums.WaiterStatusActive,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating waiter")
	}
	return waiter, nil
}
