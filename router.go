package minimalapi

import (
	"fmt"
	"net/http"
)

// Router is the HTTP route-installation primitive the registrar installs
// endpoints into. Patterns use net/http syntax: literal segments and
// {name} or {name...} wildcards.
type Router interface {
	// Handle installs h for requests matching method and pattern.
	Handle(method, pattern string, h http.Handler) error
	// PathValue returns the value of the named wildcard for r, or "".
	PathValue(r *http.Request, name string) string
}

// RoutePattern is a method and pattern pair about to be installed.
type RoutePattern struct {
	Method  string
	Pattern string
}

// RouteChecker is implemented by routers that can report, before anything is
// installed, which pattern of a batch they would refuse. App.Register checks
// the whole table first so that a refused pattern leaves the router untouched.
type RouteChecker interface {
	CheckRoutes(routes []RoutePattern) error
}

// Mux is a Router backed by a net/http ServeMux.
type Mux struct {
	mux *http.ServeMux
}

// NewMux wraps m. A nil m allocates a new ServeMux.
func NewMux(m *http.ServeMux) *Mux {
	if m == nil {
		m = http.NewServeMux()
	}
	return &Mux{mux: m}
}

// Handle implements Router. Conflicting patterns, which ServeMux reports by
// panicking, are returned as errors.
func (m *Mux) Handle(method, pattern string, h http.Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("minimalapi: installing %s %s: %v", method, pattern, rec)
		}
	}()
	m.mux.Handle(method+" "+pattern, h)
	return nil
}

// CheckRoutes implements RouteChecker by installing routes into a scratch
// ServeMux. Conflicts with patterns already registered on the wrapped mux
// are still reported by Handle.
func (m *Mux) CheckRoutes(routes []RoutePattern) error {
	scratch := NewMux(nil)
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, rt := range routes {
		if err := scratch.Handle(rt.Method, rt.Pattern, noop); err != nil {
			return err
		}
	}
	return nil
}

// PathValue implements Router.
func (m *Mux) PathValue(r *http.Request, name string) string {
	return r.PathValue(name)
}

// ServeHTTP implements http.Handler.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

// Unwrap returns the underlying ServeMux.
func (m *Mux) Unwrap() *http.ServeMux {
	return m.mux
}
