package controllers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/api/middleware"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// terminalFixture is a live session plus the context values the auth
// middleware would have seeded for it.
type terminalFixture struct {
	manager      *session.Manager
	sess         *session.Session
	restaurantID uuid.UUID
	waiterID     uuid.UUID
}

func newTerminalFixture(t *testing.T) *terminalFixture {
	t.Helper()
	manager := session.NewManager(nil, testLogger())
	t.Cleanup(manager.Close)

	restaurantID := uuid.New()
	waiterID := uuid.New()
	sess := manager.Create(context.Background(), restaurantID, waiterID)

	return &terminalFixture{
		manager:      manager,
		sess:         sess,
		restaurantID: restaurantID,
		waiterID:     waiterID,
	}
}

func (f *terminalFixture) authorize(r *http.Request) *http.Request {
	ctx := middleware.WithWaiterID(r.Context(), f.waiterID.String())
	ctx = middleware.WithRestaurantID(ctx, f.restaurantID.String())
	ctx = middleware.WithSessionID(ctx, f.sess.ID)
	return r.WithContext(ctx)
}

func (f *terminalFixture) seedTable(number int) floor.UnitKey {
	table := models.Table{
		ID:           uuid.New(),
		RestaurantID: f.restaurantID,
		Number:       number,
		Status:       enums.UnitStatusAvailable,
	}
	f.manager.Registry(f.restaurantID).Replace([]models.Table{table}, nil)
	return floor.TableKey(table.ID)
}

func (f *terminalFixture) seedTab(number int) floor.UnitKey {
	tab := models.Tab{
		ID:           uuid.New(),
		RestaurantID: f.restaurantID,
		Number:       number,
		Status:       enums.UnitStatusAvailable,
	}
	f.manager.Registry(f.restaurantID).Replace(nil, []models.Tab{tab})
	return floor.TabKey(tab.ID)
}
