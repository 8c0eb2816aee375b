package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/api/middleware"
	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/api/validators"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/internal/staff"
	pkgauth "github.com/mesalivre/pos-backend/pkg/auth"
	"github.com/mesalivre/pos-backend/pkg/config"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type loginRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
	PIN          string    `json:"pin" validate:"required,min=4,max=8"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	SessionID   string         `json:"session_id"`
	Waiter      waiterResponse `json:"waiter"`
}

type waiterResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AuthLogin authenticates a waiter by PIN and opens a terminal session.
func AuthLogin(svc staff.Service, manager *session.Manager, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		waiter, err := svc.Authenticate(r.Context(), body.RestaurantID, body.PIN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := manager.Create(r.Context(), waiter.RestaurantID, waiter.ID)
		token, err := pkgauth.IssueAccessToken(jwtCfg, waiter.ID, waiter.RestaurantID, sess.ID)
		if err != nil {
			manager.Delete(sess.ID)
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issuing access token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			SessionID:   sess.ID,
			Waiter:      waiterResponse{ID: waiter.ID, Name: waiter.Name},
		})
	}
}

// AuthLogout drops the terminal session behind the presented token.
func AuthLogout(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}
		manager.Delete(middleware.SessionID(r.Context()))
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
