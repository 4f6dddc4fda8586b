package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/minimalapi"
)

type fileRequest struct {
	Bucket string `path:"bucket"`
	Name   string `path:"name"`
	Size   int    `query:"size"`
}

func TestToNativePath(t *testing.T) {
	tests := []struct {
		in       string
		out      string
		wildcard string
	}{
		{"/users/{id}", "/users/{id}", ""},
		{"/files/{rest...}", "/files/*", "rest"},
		{"/{$}", "/", ""},
		{"/api/{$}", "/api/", ""},
	}

	for _, tt := range tests {
		got, wildcard := toNativePath(tt.in)
		assert.Equal(t, tt.out, got, "toNativePath(%q)", tt.in)
		assert.Equal(t, tt.wildcard, wildcard, "toNativePath(%q) wildcard", tt.in)
	}
}

func TestRouter_BindsPathValues(t *testing.T) {
	r := NewRouter(nil)
	var got fileRequest
	app := minimalapi.NewApp(r).WithDispatcher(minimalapi.DispatchFunc(func(ctx context.Context, req any) (minimalapi.Result, error) {
		got = req.(fileRequest)
		return minimalapi.OK(got), nil
	}))
	handler := minimalapi.HandlerFunc[fileRequest](func(ctx context.Context, req fileRequest) (minimalapi.Result, error) {
		return nil, nil
	})
	_, err := app.Register(minimalapi.NewCatalogAt("example.com/api").Add(
		minimalapi.Get("/buckets/{bucket}/files/{name...}", handler),
	))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/media/files/a/b%20c.txt?size=10", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, fileRequest{Bucket: "media", Name: "a/b c.txt", Size: 10}, got)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "media", body["Bucket"])
}

func TestRouter_MethodMismatch(t *testing.T) {
	r := NewRouter(nil)
	require.NoError(t, r.Handle(http.MethodPost, "/things", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_InvalidPatternIsError(t *testing.T) {
	r := NewRouter(nil)
	err := r.Handle(http.MethodGet, "/users/{id}/{id}", http.NotFoundHandler())
	assert.Error(t, err)
}

func TestRouter_Unwrap(t *testing.T) {
	r := NewRouter(nil)
	assert.NotNil(t, r.Unwrap())
}

func TestRouter_WildcardNamesArePerRoute(t *testing.T) {
	r := NewRouter(nil)
	echo := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(r.PathValue(req, "path")))
	})
	require.NoError(t, r.Handle(http.MethodGet, "/files/{path...}", echo))
	require.NoError(t, r.Handle(http.MethodGet, "/users/{path}", echo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/alice", nil))
	assert.Equal(t, "alice", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/a/b.txt", nil))
	assert.Equal(t, "a/b.txt", w.Body.String())
}

func TestRouter_CheckRoutes(t *testing.T) {
	r := NewRouter(nil)
	assert.NoError(t, r.CheckRoutes([]minimalapi.RoutePattern{
		{Method: http.MethodGet, Pattern: "/users/{id}"},
		{Method: http.MethodGet, Pattern: "/files/{rest...}"},
	}))
	assert.Error(t, r.CheckRoutes([]minimalapi.RoutePattern{
		{Method: http.MethodGet, Pattern: "/users/{id}/{id}"},
	}))
}

func TestRouter_RefusedPatternInstallsNothing(t *testing.T) {
	r := NewRouter(nil)
	app := minimalapi.NewApp(r).WithDispatcher(minimalapi.DispatchFunc(func(ctx context.Context, req any) (minimalapi.Result, error) {
		return minimalapi.NoContent(), nil
	}))
	handler := minimalapi.HandlerFunc[fileRequest](func(ctx context.Context, req fileRequest) (minimalapi.Result, error) {
		return nil, nil
	})
	_, err := app.Register(minimalapi.NewCatalogAt("example.com/api").Add(
		minimalapi.Get("/ok", handler),
		minimalapi.Get("/users/{id}/{id}", handler),
	))
	require.Error(t, err)
	assert.Nil(t, app.Registry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
