package minimalapi

import (
	"fmt"
	"reflect"
	"strings"
)

// BindingStrategy selects how an incoming HTTP request is turned into a
// request value before it is dispatched.
type BindingStrategy int

const (
	// ByField binds each request field individually from the route, the query
	// string and headers. It is the default for read-style methods.
	ByField BindingStrategy = iota
	// WholeBody decodes the entire request value from the JSON body. It is the
	// default for write-style methods.
	WholeBody
	// WholeForm decodes the entire request value from form fields.
	WholeForm
	// SplitForm binds two sub-structs of the request independently: one from
	// form fields and one from route and query parameters.
	SplitForm
)

var bindingNames = [...]string{
	ByField:   "by_field",
	WholeBody: "whole_body",
	WholeForm: "whole_form",
	SplitForm: "split_form",
}

func (s BindingStrategy) String() string {
	if s < 0 || int(s) >= len(bindingNames) {
		return fmt.Sprintf("BindingStrategy(%d)", int(s))
	}
	return bindingNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s BindingStrategy) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(bindingNames) {
		return nil, fmt.Errorf("minimalapi: unknown binding strategy %d", int(s))
	}
	return []byte(bindingNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *BindingStrategy) UnmarshalText(text []byte) error {
	for i, name := range bindingNames {
		if strings.EqualFold(name, string(text)) {
			*s = BindingStrategy(i)
			return nil
		}
	}
	return fmt.Errorf("minimalapi: unknown binding strategy %q", text)
}

// FormBinding marks a request type as a form submission. It is declared as
// one of the request's annotations.
//
// With both field names empty the whole request is decoded from the form.
// With both set, FormField names the sub-struct populated from form fields and
// ParamField names the sub-struct populated from route and query parameters.
// Setting only one of them is a configuration error.
type FormBinding struct {
	FormField   string
	ParamField  string
	AntiForgery bool
}

// ResponseModel documents the body a route produces for a status code.
type ResponseModel struct {
	Status int
	Type   reflect.Type
}

// Produces builds a ResponseModel for the dynamic type of model.
func Produces(status int, model any) ResponseModel {
	return ResponseModel{Status: status, Type: derefType(reflect.TypeOf(model))}
}

// Annotated is implemented by handler and request types that declare
// annotations. Annotations are opaque values; the registrar only interprets
// FormBinding and RouteMetadata.
type Annotated interface {
	Annotations() []any
}

// RouteMetadata marks a handler annotation that is forwarded verbatim onto the
// installed route. It is available at request time through
// DescriptorFromContext.
type RouteMetadata interface {
	RouteMetadata()
}

// Summary is a one-line route description forwarded as route metadata.
type Summary string

// RouteMetadata implements RouteMetadata.
func (Summary) RouteMetadata() {}

// Tags groups routes in generated documentation.
type Tags []string

// RouteMetadata implements RouteMetadata.
func (Tags) RouteMetadata() {}

// Descriptor is the immutable record of one registered endpoint.
type Descriptor struct {
	Method          string
	Path            string
	HandlerType     reflect.Type
	HandlerMetadata []any
	RequestType     reflect.Type
	RequestMetadata []any
	ResponseType    reflect.Type
	Binding         BindingStrategy
	Form            *FormBinding
	ResponseModel   *ResponseModel
	RouteMetadata   []any
}

// AntiForgery reports whether the route is protected against cross-origin
// form posts.
func (d *Descriptor) AntiForgery() bool {
	return d.Form != nil && d.Form.AntiForgery
}

// Summary returns the route's Summary metadata, if any.
func (d *Descriptor) Summary() string {
	for _, m := range d.RouteMetadata {
		if s, ok := m.(Summary); ok {
			return string(s)
		}
	}
	return ""
}

// HandlerName returns a readable identity for the handler type.
func (d *Descriptor) HandlerName() string {
	return typeName(d.HandlerType)
}

func (d *Descriptor) String() string {
	return d.Method + " " + d.Path
}

// annotationsOf returns the annotations declared by t, looking at both the
// value and the pointer method sets.
func annotationsOf(t reflect.Type) []any {
	if t == nil {
		return nil
	}
	base := derefType(t)
	if base.Kind() == reflect.Interface {
		return nil
	}
	if a, ok := reflect.New(base).Interface().(Annotated); ok {
		return a.Annotations()
	}
	return nil
}

func routeMetadata(annotations []any) []any {
	var out []any
	for _, a := range annotations {
		if _, ok := a.(RouteMetadata); ok {
			out = append(out, a)
		}
	}
	return out
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	base := derefType(t)
	if base.PkgPath() == "" {
		return t.String()
	}
	return base.PkgPath() + "." + base.Name()
}
