package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/api/middleware"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/enums"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
)

// terminalContext is the authenticated scope every in-session handler
// needs: the session plus the ids the token carried.
type terminalContext struct {
	sess         *session.Session
	restaurantID uuid.UUID
	waiterID     uuid.UUID
}

func terminalFrom(r *http.Request, manager *session.Manager) (*terminalContext, error) {
	ctx := r.Context()

	restaurantID, err := uuid.Parse(middleware.RestaurantID(ctx))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid restaurant scope")
	}
	waiterID, err := uuid.Parse(middleware.WaiterID(ctx))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid waiter scope")
	}

	sess, err := manager.Get(middleware.SessionID(ctx))
	if err != nil {
		return nil, err
	}
	if sess.RestaurantID != restaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	return &terminalContext{sess: sess, restaurantID: restaurantID, waiterID: waiterID}, nil
}

func parseUnitKey(kind, id string) (floor.UnitKey, error) {
	unitID, err := uuid.Parse(id)
	if err != nil {
		return floor.UnitKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit id")
	}
	switch floor.UnitKind(kind) {
	case floor.KindTable:
		return floor.TableKey(unitID), nil
	case floor.KindTab:
		return floor.TabKey(unitID), nil
	}
	return floor.UnitKey{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit kind").
		WithDetails(map[string]string{"unit_kind": kind})
}

func parseSize(raw *string) (*enums.ProductSize, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	size := enums.ProductSize(*raw)
	switch size {
	case enums.SizeSmall, enums.SizeMedium, enums.SizeLarge:
		return &size, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product size").
		WithDetails(map[string]string{"size": *raw})
}
