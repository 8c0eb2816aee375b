package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/pkg/logger"
)

// HeaderRequestID carries the correlation id. Terminals retrying over
// flaky floor wifi resend the same id, so support can line up device
// logs with server logs.
const HeaderRequestID = "X-Request-Id"

// RequestID tags every request with a correlation id and echoes it on
// the response. Inbound ids that are not UUIDs are replaced, never
// trusted into the logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
