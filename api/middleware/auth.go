package middleware

import (
	"net/http"
	"strings"

	"github.com/mesalivre/pos-backend/api/responses"
	pkgAuth "github.com/mesalivre/pos-backend/pkg/auth"
	"github.com/mesalivre/pos-backend/pkg/config"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

// SessionChecker reports whether a terminal session is still live.
type SessionChecker interface {
	HasSession(id string) bool
}

// Auth validates a bearer token and seeds the request context with the
// waiter, restaurant, and terminal session.
func Auth(cfg config.JWTConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if sessions != nil && !sessions.HasSession(claims.SessionID) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
				return
			}

			ctx := WithWaiterID(r.Context(), claims.WaiterID.String())
			ctx = WithRestaurantID(ctx, claims.RestaurantID.String())
			ctx = WithSessionID(ctx, claims.SessionID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"waiter_id":     claims.WaiterID.String(),
					"restaurant_id": claims.RestaurantID.String(),
					"session_id":    claims.SessionID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
