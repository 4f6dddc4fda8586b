package minimalapi

import (
	"reflect"
	"strings"
)

// Registry is the table of endpoints installed by one App.Register call.
// It is immutable and safe for concurrent use.
type Registry struct {
	endpoints []*Descriptor
	byHandler map[reflect.Type]*Descriptor
}

func newRegistry(descriptors []*Descriptor) *Registry {
	r := &Registry{
		endpoints: descriptors,
		byHandler: make(map[reflect.Type]*Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, ok := r.byHandler[d.HandlerType]; !ok {
			r.byHandler[d.HandlerType] = d
		}
	}
	return r
}

// All returns the descriptors in registration order.
func (r *Registry) All() []*Descriptor {
	if r == nil {
		return nil
	}
	return append([]*Descriptor(nil), r.endpoints...)
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.endpoints)
}

// ByHandler returns the first endpoint served by handler type t. Pointer and
// value types resolve to the same endpoint.
func (r *Registry) ByHandler(t reflect.Type) *Descriptor {
	if r == nil || t == nil {
		return nil
	}
	return r.byHandler[derefType(t)]
}

// ByPath returns the first endpoint whose path equals path, ignoring case.
func (r *Registry) ByPath(path string) *Descriptor {
	if r == nil {
		return nil
	}
	for _, d := range r.endpoints {
		if strings.EqualFold(d.Path, path) {
			return d
		}
	}
	return nil
}

// ByRoute returns the endpoint installed for method and path.
func (r *Registry) ByRoute(method, path string) *Descriptor {
	if r == nil {
		return nil
	}
	for _, d := range r.endpoints {
		if strings.EqualFold(d.Method, method) && strings.EqualFold(d.Path, path) {
			return d
		}
	}
	return nil
}
