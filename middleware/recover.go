package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/broady/minimalapi"
)

// Recover returns an HTTP middleware that turns panics into 500 responses
// using the minimalapi error envelope. Routes installed by an App already
// recover on their own; Recover covers everything else served by the router.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "PANIC recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				_ = minimalapi.Problem(minimalapi.NewError(minimalapi.CodeInternal, "internal server error")).WriteResult(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
