package minimalapi

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// DefaultBinding returns the binding strategy used for a method when the
// request declares no form binding.
func DefaultBinding(method string) BindingStrategy {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return WholeBody
	default:
		return ByField
	}
}

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
	http.MethodPatch:   true,
}

func canonicalMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if !knownMethods[m] {
		return "", &ConfigurationError{Reason: fmt.Sprintf("%q", method), Err: ErrUnknownMethod}
	}
	return m, nil
}

// Binding is the outcome of classifying a request type.
type Binding struct {
	Strategy BindingStrategy
	Form     *FormBinding

	// Populated for SplitForm.
	FormField  reflect.StructField
	ParamField reflect.StructField
}

// Classify selects the binding strategy for requestType. Without a FormBinding
// annotation the declared strategy is returned unchanged.
func Classify(requestType reflect.Type, requestMetadata []any, declared BindingStrategy) (Binding, error) {
	form := findFormBinding(requestMetadata)
	if form == nil {
		if declared == ByField {
			if err := requireStruct(requestType); err != nil {
				return Binding{}, err
			}
		}
		if requestType.Kind() == reflect.Interface {
			return Binding{}, &ConfigurationError{Type: requestType, Reason: "request type is an interface", Err: ErrUnconstructible}
		}
		return Binding{Strategy: declared}, nil
	}

	if err := requireStruct(requestType); err != nil {
		return Binding{}, err
	}

	switch {
	case form.FormField == "" && form.ParamField == "":
		return Binding{Strategy: WholeForm, Form: form}, nil
	case form.FormField == "" || form.ParamField == "":
		return Binding{}, &ConfigurationError{
			Type:   requestType,
			Reason: fmt.Sprintf("FormField=%q ParamField=%q", form.FormField, form.ParamField),
			Err:    ErrSplitFormFields,
		}
	case form.FormField == form.ParamField:
		return Binding{}, &ConfigurationError{
			Type:   requestType,
			Reason: fmt.Sprintf("FormField and ParamField both name %q", form.FormField),
			Err:    ErrSplitFormFields,
		}
	}

	formField, err := subStructField(requestType, form.FormField)
	if err != nil {
		return Binding{}, err
	}
	paramField, err := subStructField(requestType, form.ParamField)
	if err != nil {
		return Binding{}, err
	}
	return Binding{
		Strategy:   SplitForm,
		Form:       form,
		FormField:  formField,
		ParamField: paramField,
	}, nil
}

func findFormBinding(metadata []any) *FormBinding {
	for _, m := range metadata {
		switch fb := m.(type) {
		case FormBinding:
			return &fb
		case *FormBinding:
			if fb != nil {
				cp := *fb
				return &cp
			}
		}
	}
	return nil
}

// requireStruct checks that t can be constructed without arguments and bound
// field by field.
func requireStruct(t reflect.Type) error {
	base := derefType(t)
	if base.Kind() != reflect.Struct {
		return &ConfigurationError{
			Type:   t,
			Reason: "request type must be a struct or pointer to struct, got " + base.Kind().String(),
			Err:    ErrUnconstructible,
		}
	}
	return nil
}

func subStructField(requestType reflect.Type, name string) (reflect.StructField, error) {
	base := derefType(requestType)
	f, ok := base.FieldByName(name)
	if !ok || !f.IsExported() || len(f.Index) != 1 {
		return reflect.StructField{}, &ConfigurationError{
			Type:   requestType,
			Reason: fmt.Sprintf("no exported field %q on %s", name, base),
			Err:    ErrUnknownField,
		}
	}
	if derefType(f.Type).Kind() != reflect.Struct {
		return reflect.StructField{}, &ConfigurationError{
			Type:   requestType,
			Reason: fmt.Sprintf("field %q must be a struct or pointer to struct, got %s", name, f.Type),
			Err:    ErrUnknownField,
		}
	}
	return f, nil
}
