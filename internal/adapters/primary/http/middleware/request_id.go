package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lcrommet/glpi-insight-backend/internal/infrastructure/logging"
)

// RequestIDHeader carries the request ID between the reverse proxy,
// this service and its responses.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID, reusing an inbound
// X-Request-ID so a report request stays traceable across the proxy.
// The ID lives in the context under the logging package's key, which
// stamps it on every log line written with the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
