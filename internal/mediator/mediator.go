// Package mediator is a small in-process command bus. Handlers are keyed by
// their request type and wrapped by an ordered chain of behaviors.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/broady/minimalapi"
)

// ErrNoHandler is returned by Send when no handler accepts the request type.
var ErrNoHandler = errors.New("mediator: no handler registered")

// Next invokes the next behavior in the chain, or the handler itself.
type Next func(ctx context.Context, request any) (minimalapi.Result, error)

// Behavior wraps handler execution. Behaviors can:
//   - Inspect the request before calling next
//   - Inspect the result after calling next
//   - Short-circuit by returning an error without calling next
type Behavior func(ctx context.Context, request any, next Next) (minimalapi.Result, error)

// Mediator resolves a request to its handler. It implements
// minimalapi.Dispatcher.
type Mediator struct {
	mu        sync.RWMutex
	handlers  map[reflect.Type]Next
	behaviors []Behavior
	logger    *slog.Logger
}

// New returns an empty mediator.
func New() *Mediator {
	return &Mediator{handlers: make(map[reflect.Type]Next)}
}

// WithLogger sets a custom logger.
// If not set, slog.Default() will be used.
func (m *Mediator) WithLogger(logger *slog.Logger) *Mediator {
	m.logger = logger
	return m
}

// Use appends behaviors. The first behavior added is the outermost.
func (m *Mediator) Use(behaviors ...Behavior) *Mediator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.behaviors = append(m.behaviors, behaviors...)
	return m
}

// Handle registers h for requests of type Req. Registering a second handler
// for the same type replaces the first and logs a warning.
func Handle[Req any](m *Mediator, h minimalapi.RequestHandler[Req, minimalapi.Result]) {
	key := reflect.TypeFor[Req]()
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[key]; exists {
		m.log().Warn("duplicate handler registration", slog.String("request", key.String()))
	}
	m.handlers[key] = func(ctx context.Context, request any) (minimalapi.Result, error) {
		req, ok := request.(Req)
		if !ok {
			return nil, fmt.Errorf("mediator: expected %s, got %T", key, request)
		}
		return h.Handle(ctx, req)
	}
}

// Send implements minimalapi.Dispatcher.
func (m *Mediator) Send(ctx context.Context, request any) (minimalapi.Result, error) {
	m.mu.RLock()
	handler, ok := m.handlers[reflect.TypeOf(request)]
	behaviors := m.behaviors
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w for %T", ErrNoHandler, request)
	}
	if chain := chainBehaviors(behaviors); chain != nil {
		return chain(ctx, request, handler)
	}
	return handler(ctx, request)
}

func (m *Mediator) log() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// chainBehaviors combines multiple behaviors into a single one.
// The first behavior in the slice is the outer-most one (runs first).
func chainBehaviors(behaviors []Behavior) Behavior {
	if len(behaviors) == 0 {
		return nil
	}
	if len(behaviors) == 1 {
		return behaviors[0]
	}
	return func(ctx context.Context, request any, handler Next) (minimalapi.Result, error) {
		// Chain: b[0] -> b[1] -> ... -> handler
		chain := handler
		for i := len(behaviors) - 1; i >= 0; i-- {
			current := behaviors[i]
			next := chain
			chain = func(ctx context.Context, request any) (minimalapi.Result, error) {
				return current(ctx, request, next)
			}
		}
		return chain(ctx, request)
	}
}
