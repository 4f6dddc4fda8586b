package minimalapi

import "context"

// Dispatcher hands a bound request to the command bus and returns the result
// produced by its handler. The request context is passed through unchanged so
// cancellation from the client reaches the handler.
type Dispatcher interface {
	Send(ctx context.Context, request any) (Result, error)
}

// DispatchFunc adapts a function to a Dispatcher.
type DispatchFunc func(ctx context.Context, request any) (Result, error)

// Send implements Dispatcher.
func (f DispatchFunc) Send(ctx context.Context, request any) (Result, error) {
	return f(ctx, request)
}

// RequestHandler is the handler contract every endpoint satisfies. Endpoint
// handlers use Result as Res.
type RequestHandler[Req any, Res any] interface {
	Handle(ctx context.Context, request Req) (Res, error)
}

// HandlerFunc adapts a function to RequestHandler. Since its type lives in
// this package, endpoints built from it need an explicit route.
type HandlerFunc[Req any] func(ctx context.Context, request Req) (Result, error)

// Handle implements RequestHandler.
func (f HandlerFunc[Req]) Handle(ctx context.Context, request Req) (Result, error) {
	return f(ctx, request)
}
