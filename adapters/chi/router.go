// Package chi installs minimalapi endpoints into a chi router.
package chi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	chibase "github.com/go-chi/chi/v5"

	"github.com/broady/minimalapi"
)

// Router adapts a chi.Mux to minimalapi.Router.
type Router struct {
	mux *chibase.Mux
}

var (
	_ minimalapi.Router       = (*Router)(nil)
	_ minimalapi.RouteChecker = (*Router)(nil)
)

// wildcardKey carries the name of the matched route's trailing wildcard,
// which chi exposes as "*".
type wildcardKey struct{}

// NewRouter returns a new chi router wrapper. If mux is nil a new one is
// created.
func NewRouter(mux *chibase.Mux) *Router {
	if mux == nil {
		mux = chibase.NewRouter()
	}
	return &Router{mux: mux}
}

// Handle implements minimalapi.Router.
func (r *Router) Handle(method, pattern string, h http.Handler) (err error) {
	native, wildcard := toNativePath(pattern)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chi: installing %s %s: %v", method, native, rec)
		}
	}()
	if wildcard != "" {
		next := h
		h = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), wildcardKey{}, wildcard)))
		})
	}
	r.mux.Method(method, native, h)
	return nil
}

// CheckRoutes implements minimalapi.RouteChecker by installing routes into a
// scratch chi.Mux.
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
	key := name
	if wc, _ := req.Context().Value(wildcardKey{}).(string); wc == name {
		key = "*"
	}
	v := chibase.URLParamFromCtx(req.Context(), key)
	if raw, err := url.PathUnescape(v); err == nil {
		return raw
	}
	return v
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Unwrap returns the underlying chi.Mux instance.
func (r *Router) Unwrap() *chibase.Mux {
	return r.mux
}

// toNativePath rewrites a net/http pattern into chi syntax: a trailing
// {name...} becomes "*" and a trailing {$} is dropped. The wildcard name is
// returned so it can be looked up again.
func toNativePath(pattern string) (native, wildcard string) {
	segs := strings.Split(pattern, "/")
	last := segs[len(segs)-1]
	switch {
	case last == "{$}":
		segs = segs[:len(segs)-1]
		if len(segs) == 1 {
			return "/", ""
		}
		return strings.Join(segs, "/") + "/", ""
	case strings.HasPrefix(last, "{") && strings.HasSuffix(last, "...}"):
		wildcard = last[1 : len(last)-4]
		segs[len(segs)-1] = "*"
	}
	return strings.Join(segs, "/"), wildcard
}
