package minimalapi

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func exportFixture(t *testing.T) *Registry {
	t.Helper()
	app, _ := newTestApp(&recorder{})
	catalog := NewCatalogAt(testRoot).
		Add(
			Get("/inventory", documented{}),
			Post("/forge", postForge{}),
			Post("/bread", postBread{}),
			Post("", &bakeLoaf{}, WithResponseModel(http.StatusCreated, loafRequest{})),
		).
		ResponseModel(breadRequest{}, breadRequest{})
	reg, err := app.Register(catalog)
	if err != nil {
		t.Fatalf("unexpected registration error: %v", err)
	}
	return reg
}

func TestRegistry_Export(t *testing.T) {
	routes := exportFixture(t).Export()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}

	inv := routes[0]
	if inv.Summary != "List the inventory" || inv.Metadata != 2 || inv.Binding != ByField {
		t.Errorf("unexpected inventory route: %+v", inv)
	}
	if inv.Handler != "github.com/broady/minimalapi.documented" {
		t.Errorf("unexpected handler: %s", inv.Handler)
	}

	if !routes[1].AntiForgery || routes[1].Binding != WholeForm {
		t.Errorf("expected protected whole_form route, got %+v", routes[1])
	}

	bread := routes[2]
	if bread.ResponseModel == nil || bread.ResponseModel.Status != http.StatusOK ||
		bread.ResponseModel.Type != "github.com/broady/minimalapi.breadRequest" {
		t.Errorf("expected catalog response model, got %+v", bread.ResponseModel)
	}

	loaf := routes[3]
	if loaf.Path != "/minimalapi/bakeloaf" || loaf.Request != "github.com/broady/minimalapi.loafRequest" {
		t.Errorf("unexpected loaf route: %+v", loaf)
	}
	if loaf.ResponseModel == nil || loaf.ResponseModel.Status != http.StatusCreated {
		t.Errorf("expected endpoint response model, got %+v", loaf.ResponseModel)
	}
}

func TestRegistry_WriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := exportFixture(t).WriteYAML(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"- method: GET\n  path: /inventory\n",
		"summary: List the inventory",
		"binding: whole_form",
		"anti_forgery: true",
		"response_model:\n    status: 201",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	var back []ExportedRoute
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(back) != 4 || back[1].Binding != WholeForm || back[2].Binding != WholeBody {
		t.Errorf("unexpected decoded routes: %+v", back)
	}
}

func TestRegistry_WriteYAMLEmpty(t *testing.T) {
	var reg *Registry
	var buf bytes.Buffer
	if err := reg.WriteYAML(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty sequence, got %q", buf.String())
	}
}
