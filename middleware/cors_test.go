package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/broady/minimalapi"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_NilConfig(t *testing.T) {
	corsHandler := CORS(nil)(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	corsHandler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected default Access-Control-Allow-Origin *, got %s", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight request")
	})

	corsHandler := CORS(&CORSConfig{MaxAge: 600})(handler)

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	corsHandler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("expected default methods, got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("expected Access-Control-Allow-Headers header to be set")
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("expected Access-Control-Max-Age 600, got %q", got)
	}
}

func TestCORS_PlainOptionsPassesThrough(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	CORS(nil)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected OPTIONS without Access-Control-Request-Method to reach the handler")
	}
}

func TestCORS_SpecificOrigin(t *testing.T) {
	cfg := &CORSConfig{
		AllowOrigins: []string{"http://example.com", "http://test.com"},
		AllowMethods: []string{"GET", "POST"},
	}

	corsHandler := CORS(cfg)(okHandler())

	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{"allowed origin 1", "http://example.com", "http://example.com"},
		{"allowed origin 2", "http://test.com", "http://test.com"},
		{"disallowed origin", "http://evil.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			corsHandler.ServeHTTP(w, req)

			gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
			if gotOrigin != tt.expectedOrigin {
				t.Errorf("expected origin %s, got %s", tt.expectedOrigin, gotOrigin)
			}
		})
	}
}

func TestCORS_WildcardWithCredentials(t *testing.T) {
	corsHandler := CORS(&CORSConfig{AllowCredentials: true})(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	corsHandler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("expected echoed origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials header, got %q", got)
	}
}

func TestCORS_MethodsFromRoutes(t *testing.T) {
	noop := minimalapi.HandlerFunc[struct{}](func(ctx context.Context, req struct{}) (minimalapi.Result, error) {
		return minimalapi.NoContent(), nil
	})
	catalog := minimalapi.NewCatalogAt("example.com/api").Add(
		minimalapi.Get("/a", noop),
		minimalapi.Put("/a", noop),
		minimalapi.Get("/b", noop),
	)
	app := minimalapi.NewApp(minimalapi.NewMux(nil)).
		WithDispatcher(minimalapi.DispatchFunc(func(ctx context.Context, req any) (minimalapi.Result, error) {
			return minimalapi.NoContent(), nil
		}))
	routes, err := app.Register(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	corsHandler := CORS(&CORSConfig{Routes: routes})(okHandler())

	req := httptest.NewRequest("OPTIONS", "/a", nil)
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	got := w.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "PUT", "OPTIONS"} {
		if !strings.Contains(got, m) {
			t.Errorf("expected %s in %q", m, got)
		}
	}
	if strings.Contains(got, "POST") {
		t.Errorf("expected no POST in %q", got)
	}
}
