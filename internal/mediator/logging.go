package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/broady/minimalapi"
)

// Logging returns a behavior that logs the start and end of each request,
// including duration and error status. Requests dispatched from an HTTP
// route are tagged with the route.
func Logging(logger *slog.Logger) Behavior {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, request any, next Next) (minimalapi.Result, error) {
		start := time.Now()
		attrs := []any{slog.String("request", fmt.Sprintf("%T", request))}
		if d, ok := minimalapi.DescriptorFromContext(ctx); ok {
			attrs = append(attrs, slog.String("route", d.String()))
		}

		logger.DebugContext(ctx, "request started", attrs...)

		res, err := next(ctx, request)
		attrs = append(attrs, slog.Duration("duration", time.Since(start)))

		if err != nil {
			logger.ErrorContext(ctx, "request failed", append(attrs, slog.Any("error", err))...)
		} else {
			logger.InfoContext(ctx, "request completed", attrs...)
		}

		return res, err
	}
}
