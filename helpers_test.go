package minimalapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"
)

// testRoot makes convention paths for types in this package start with
// /minimalapi.
const testRoot = "github.com/broady"

var discardLogger = slog.New(slog.DiscardHandler)

// recorder is a Dispatcher that remembers every request it receives.
type recorder struct {
	mu     sync.Mutex
	calls  []any
	ctxs   []context.Context
	result Result
	err    error
}

func (d *recorder) Send(ctx context.Context, req any) (Result, error) {
	d.mu.Lock()
	d.calls = append(d.calls, req)
	d.ctxs = append(d.ctxs, ctx)
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	if d.result != nil {
		return d.result, nil
	}
	return OK(req), nil
}

func (d *recorder) only(t *testing.T) any {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.calls) != 1 {
		t.Fatalf("expected exactly 1 dispatch, got %d", len(d.calls))
	}
	return d.calls[0]
}

func newTestApp(d Dispatcher) (*App, *Mux) {
	mux := NewMux(nil)
	return NewApp(mux).WithLogger(discardLogger).WithDispatcher(d), mux
}

// register installs endpoints rooted at testRoot and fails the test on error.
func register(t *testing.T, app *App, endpoints ...Endpoint) *Registry {
	t.Helper()
	reg, err := app.Register(NewCatalogAt(testRoot).Add(endpoints...))
	if err != nil {
		t.Fatalf("unexpected registration error: %v", err)
	}
	return reg
}

func requireErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got %v", target, err)
	}
}

type weatherRequest struct {
	Location string `path:"location" validate:"required"`
	State    string `query:"state"`
}

type getWeather struct{}

func (getWeather) Handle(ctx context.Context, req weatherRequest) (Result, error) {
	return OK(req), nil
}

type breadRequest struct {
	Grain  string `json:"grain" validate:"required"`
	Weight int    `json:"weight"`
}

type postBread struct{}

func (postBread) Handle(ctx context.Context, req breadRequest) (Result, error) {
	return OK(req), nil
}

type breadForm struct {
	Grain  string `form:"grain" validate:"required"`
	Weight int    `form:"weight"`
}

func (breadForm) Annotations() []any { return []any{FormBinding{}} }

type postBreadForm struct{}

func (postBreadForm) Handle(ctx context.Context, req breadForm) (Result, error) {
	return OK(req), nil
}

type forgeForm struct {
	Metal string `form:"metal"`
}

func (forgeForm) Annotations() []any { return []any{&FormBinding{AntiForgery: true}} }

type postForge struct{}

func (postForge) Handle(ctx context.Context, req forgeForm) (Result, error) {
	return OK(req), nil
}

type orderForm struct {
	Item     string `form:"item" validate:"required"`
	Quantity int    `form:"quantity"`
}

type orderParams struct {
	Store    string `path:"store"`
	Priority string `query:"priority"`
}

type orderRequest struct {
	Order orderForm
	Where *orderParams
}

func (orderRequest) Annotations() []any {
	return []any{FormBinding{FormField: "Order", ParamField: "Where"}}
}

type placeOrder struct{}

func (placeOrder) Handle(ctx context.Context, req orderRequest) (Result, error) {
	return OK(req), nil
}

type loafRequest struct {
	Flour string `json:"flour"`
}

type bakeLoaf struct{}

func (*bakeLoaf) Handle(ctx context.Context, req *loafRequest) (Result, error) {
	return OK(req), nil
}

type grainBody struct {
	DesiredQuantity int `json:"desiredQuantity" validate:"gt=0"`
}

type grainRequest struct {
	GrainType string    `path:"graintype"`
	Tenant    string    `header:"X-Tenant"`
	Body      grainBody `body:""`
}

type postGrain struct{}

func (postGrain) Handle(ctx context.Context, req grainRequest) (Result, error) {
	return OK(req), nil
}

type documented struct{}

func (documented) Annotations() []any {
	return []any{Summary("List the inventory"), "opaque", Tags{"inventory"}}
}

func (documented) Handle(ctx context.Context, req struct{}) (Result, error) {
	return Status(http.StatusNoContent), nil
}
