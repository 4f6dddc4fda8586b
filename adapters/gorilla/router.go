// Package gorilla installs minimalapi endpoints into a gorilla/mux router.
package gorilla

import (
	"fmt"
	"net/http"
	"strings"

	muxpkg "github.com/gorilla/mux"

	"github.com/broady/minimalapi"
)

// Router adapts a gorilla/mux Router to minimalapi.Router.
type Router struct {
	router *muxpkg.Router
}

var (
	_ minimalapi.Router       = (*Router)(nil)
	_ minimalapi.RouteChecker = (*Router)(nil)
)

// NewRouter returns a new gorilla router wrapper. If r is nil a new one is
// created.
func NewRouter(r *muxpkg.Router) *Router {
	if r == nil {
		r = muxpkg.NewRouter()
	}
	return &Router{router: r}
}

// Handle implements minimalapi.Router.
func (r *Router) Handle(method, pattern string, h http.Handler) error {
	native := toNativePath(pattern)
	route := r.router.Path(native).Methods(method).Handler(h)
	if err := route.GetError(); err != nil {
		return fmt.Errorf("gorilla: installing %s %s: %w", method, native, err)
	}
	return nil
}

// CheckRoutes implements minimalapi.RouteChecker by parsing every pattern
// into a scratch router.
func (r *Router) CheckRoutes(routes []minimalapi.RoutePattern) error {
	scratch := NewRouter(nil)
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, rt := range routes {
		if err := scratch.Handle(rt.Method, rt.Pattern, noop); err != nil {
			return err
		}
	}
	return nil
}

// PathValue implements minimalapi.Router.
func (r *Router) PathValue(req *http.Request, name string) string {
	return muxpkg.Vars(req)[name]
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Unwrap returns the underlying gorilla/mux Router.
func (r *Router) Unwrap() *muxpkg.Router {
	return r.router
}

// toNativePath rewrites a net/http pattern into gorilla/mux syntax.
func toNativePath(pattern string) string {
	segs := strings.Split(pattern, "/")
	last := segs[len(segs)-1]
	switch {
	case last == "{$}":
		segs[len(segs)-1] = ""
	case strings.HasPrefix(last, "{") && strings.HasSuffix(last, "...}"):
		segs[len(segs)-1] = "{" + last[1:len(last)-4] + ":.*}"
	}
	return strings.Join(segs, "/")
}
