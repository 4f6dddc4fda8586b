package testutil_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/testutil"
)

type SignupRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type SignupResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

type SearchRequest struct {
	Query string `query:"q"`
	Limit int    `query:"limit"`
}

type signup struct{}

func (signup) Handle(ctx context.Context, req *SignupRequest) (minimalapi.Result, error) {
	return minimalapi.OK(&SignupResponse{Message: "Hello, " + req.Name, ID: 123}), nil
}

type search struct{}

func (search) Handle(ctx context.Context, req SearchRequest) (minimalapi.Result, error) {
	return minimalapi.OK(req), nil
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	mux := minimalapi.NewMux(nil)
	app := minimalapi.NewApp(mux).WithDispatcher(minimalapi.DispatchFunc(func(ctx context.Context, req any) (minimalapi.Result, error) {
		switch req := req.(type) {
		case *SignupRequest:
			return signup{}.Handle(ctx, req)
		case SearchRequest:
			return search{}.Handle(ctx, req)
		}
		return nil, minimalapi.NewError(minimalapi.CodeNotFound, "no handler")
	}))
	catalog := minimalapi.NewCatalogAt("example.com/api").Add(
		minimalapi.Post("/signup", signup{}),
		minimalapi.Get("/search", search{}),
	)
	if _, err := app.Register(catalog); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux
}

// TestRequestBuilder demonstrates the fluent API for building requests
func TestRequestBuilder(t *testing.T) {
	w := testutil.NewRequest().
		POST("/signup").
		WithJSON(&SignupRequest{Name: "Alice", Email: "alice@example.com"}).
		Serve(newServer(t))

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSONResponse(t, w, &SignupResponse{
		Message: "Hello, Alice",
		ID:      123,
	})
}

// TestRequestBuilder_Validation demonstrates validation error handling
func TestRequestBuilder_Validation(t *testing.T) {
	w := testutil.NewRequest().
		POST("/signup").
		WithJSON(&SignupRequest{Name: "Alice", Email: "invalid-email"}).
		Serve(newServer(t))

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	errResp := testutil.AssertJSONError(t, w, string(minimalapi.CodeInvalidArgument))

	if errResp.Details["Email"] != "must be a valid email address" {
		t.Errorf("expected email detail, got %v", errResp.Details)
	}
}

// TestRequestBuilder_GET demonstrates GET request with query parameters
func TestRequestBuilder_GET(t *testing.T) {
	w := testutil.NewRequest().
		GET("/search").
		WithQuery("q", "golang tips").
		WithQuery("limit", "10").
		Serve(newServer(t))

	testutil.AssertStatus(t, w, http.StatusOK)
	var got SearchRequest
	testutil.DecodeJSON(t, w, &got)
	if got.Query != "golang tips" || got.Limit != 10 {
		t.Errorf("expected {golang tips 10}, got %+v", got)
	}
}

func TestRequestBuilder_Form(t *testing.T) {
	req, _ := testutil.NewRequest().
		POST("/bread").
		WithForm("grain", "rye").
		WithForm("weight", "12").
		Build()

	if err := req.ParseForm(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.PostForm.Get("grain") != "rye" || req.PostForm.Get("weight") != "12" {
		t.Errorf("expected form values, got %v", req.PostForm)
	}
}

func TestAssertHeader(t *testing.T) {
	w := testutil.NewRequest().
		GET("/search").
		Serve(newServer(t))

	testutil.AssertHeader(t, w, "Content-Type", "application/json")
}
