// Package sync keeps a terminal's floor registry aligned with the
// database, either by reacting to pushed change notifications or by
// polling on a fixed cadence. Ready-item counts refresh on their own
// ticker in both modes.
package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/orders"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/errors"
)

// Source fetches the authoritative floor state for one restaurant.
type Source interface {
	FetchFloor(ctx context.Context) ([]models.Table, []models.Tab, error)
	FetchReady(ctx context.Context) (map[floor.UnitKey]int, error)
}

type dbSource struct {
	restaurantID uuid.UUID
	floorRepo    floor.Repository
	ordersRepo   orders.Repository
}

// NewDBSource reads floor state straight from the repositories.
func NewDBSource(restaurantID uuid.UUID, floorRepo floor.Repository, ordersRepo orders.Repository) Source {
	return &dbSource{restaurantID: restaurantID, floorRepo: floorRepo, ordersRepo: ordersRepo}
}

func (s *dbSource) FetchFloor(ctx context.Context) ([]models.Table, []models.Tab, error) {
	tables, err := s.floorRepo.ListTables(ctx, s.restaurantID)
	if err != nil {
		return nil, nil, err
	}
	tabs, err := s.floorRepo.ListTabs(ctx, s.restaurantID)
	if err != nil {
		return nil, nil, err
	}
	return tables, tabs, nil
}

func (s *dbSource) FetchReady(ctx context.Context) (map[floor.UnitKey]int, error) {
	return s.ordersRepo.ReadyCounts(ctx, s.restaurantID)
}

// Refresher applies fresh source state to a registry. Every refresh is a
// full replace, never a merge, so a missed notification can only delay
// convergence, not corrupt it.
type Refresher struct {
	registry *floor.Registry
	source   Source
}

// NewRefresher binds a registry to its source.
func NewRefresher(registry *floor.Registry, source Source) *Refresher {
	return &Refresher{registry: registry, source: source}
}

// RefreshFloor refetches both unit collections and replaces the registry.
func (r *Refresher) RefreshFloor(ctx context.Context) error {
	tables, tabs, err := r.source.FetchFloor(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "refreshing floor state")
	}
	r.registry.Replace(tables, tabs)
	return nil
}

// RefreshReady rebuilds the ready-item map from scratch.
func (r *Refresher) RefreshReady(ctx context.Context) error {
	counts, err := r.source.FetchReady(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "refreshing ready counts")
	}
	r.registry.ReplaceReady(counts)
	return nil
}

// RefreshAll runs both refreshes, collecting failures so one broken
// query never hides the other's.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	return multierr.Append(r.RefreshFloor(ctx), r.RefreshReady(ctx))
}
