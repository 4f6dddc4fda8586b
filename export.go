package minimalapi

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ExportedRoute is the serializable view of a registered endpoint.
type ExportedRoute struct {
	Method        string          `yaml:"method" json:"method"`
	Path          string          `yaml:"path" json:"path"`
	Handler       string          `yaml:"handler" json:"handler"`
	Request       string          `yaml:"request" json:"request"`
	Summary       string          `yaml:"summary,omitempty" json:"summary,omitempty"`
	Binding       BindingStrategy `yaml:"binding" json:"binding"`
	AntiForgery   bool            `yaml:"anti_forgery,omitempty" json:"anti_forgery,omitempty"`
	ResponseModel *ExportedModel  `yaml:"response_model,omitempty" json:"response_model,omitempty"`
	Metadata      int             `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ExportedModel is the serializable view of a ResponseModel.
type ExportedModel struct {
	Status int    `yaml:"status" json:"status"`
	Type   string `yaml:"type" json:"type"`
}

// Export returns the route table in registration order.
func (r *Registry) Export() []ExportedRoute {
	all := r.All()
	out := make([]ExportedRoute, 0, len(all))
	for _, d := range all {
		er := ExportedRoute{
			Method:      d.Method,
			Path:        d.Path,
			Handler:     d.HandlerName(),
			Request:     typeName(d.RequestType),
			Summary:     d.Summary(),
			Binding:     d.Binding,
			AntiForgery: d.AntiForgery(),
			Metadata:    len(d.RouteMetadata),
		}
		if m := d.ResponseModel; m != nil {
			er.ResponseModel = &ExportedModel{Status: m.Status, Type: typeName(m.Type)}
		}
		out = append(out, er)
	}
	return out
}

// WriteYAML writes the route table to w as a YAML sequence.
func (r *Registry) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Export()); err != nil {
		return fmt.Errorf("minimalapi: encoding routes: %w", err)
	}
	return enc.Close()
}
