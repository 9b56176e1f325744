package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logging logs every request with its status, user and duration. Client
// errors are logged at warn level and server errors at error level.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			// The auth middleware runs further down the chain, so the user
			// is read from a holder it fills in.
			holder := &userHolder{}
			r = r.WithContext(withUserHolder(r.Context(), holder))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"user_id", holder.userID,
				"request_id", chimw.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			}

			switch {
			case status >= 500:
				logger.Error("HTTP error", attrs...)
			case status >= 400:
				logger.Warn("HTTP rejected", attrs...)
			default:
				logger.Info("HTTP ok", attrs...)
			}
		})
	}
}
