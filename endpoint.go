package minimalapi

import "net/http"

// Endpoint declares one route. Handler must satisfy RequestHandler[Req, Result];
// Route may be empty, in which case the path is derived from the handler
// type's package relative to the catalog root.
type Endpoint struct {
	Method  string
	Route   string
	Name    string
	Handler any

	// Metadata is appended to the handler's own annotations.
	Metadata []any

	// Binding overrides the method's default strategy when the request has no
	// form binding. Nil means DefaultBinding(Method).
	Binding *BindingStrategy

	// ResponseModel overrides the catalog's model for the request type.
	ResponseModel *ResponseModel
}

// Option configures an Endpoint declaration.
type Option func(*Endpoint)

// WithName replaces the type name in a convention-derived path.
func WithName(name string) Option {
	return func(e *Endpoint) { e.Name = name }
}

// WithMetadata appends annotations to the endpoint.
func WithMetadata(metadata ...any) Option {
	return func(e *Endpoint) { e.Metadata = append(e.Metadata, metadata...) }
}

// WithBinding selects ByField or WholeBody regardless of the method.
func WithBinding(s BindingStrategy) Option {
	return func(e *Endpoint) { e.Binding = &s }
}

// WithResponseModel documents the response body produced for status.
func WithResponseModel(status int, model any) Option {
	return func(e *Endpoint) {
		m := Produces(status, model)
		e.ResponseModel = &m
	}
}

func newEndpoint(method, route string, handler any, opts []Option) Endpoint {
	e := Endpoint{Method: method, Route: route, Handler: handler}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Get declares a GET endpoint. An empty route selects the convention path.
func Get(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodGet, route, handler, opts)
}

// Head declares a HEAD endpoint.
func Head(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodHead, route, handler, opts)
}

// Post declares a POST endpoint.
func Post(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodPost, route, handler, opts)
}

// Put declares a PUT endpoint.
func Put(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodPut, route, handler, opts)
}

// Delete declares a DELETE endpoint.
func Delete(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodDelete, route, handler, opts)
}

// Connect declares a CONNECT endpoint.
func Connect(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodConnect, route, handler, opts)
}

// Options declares a OPTIONS endpoint.
func Options(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodOptions, route, handler, opts)
}

// Trace declares a TRACE endpoint.
func Trace(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodTrace, route, handler, opts)
}

// Patch declares a PATCH endpoint.
func Patch(route string, handler any, opts ...Option) Endpoint {
	return newEndpoint(http.MethodPatch, route, handler, opts)
}
