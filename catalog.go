package minimalapi

import (
	"net/http"
	"reflect"
)

// Catalog is an ordered set of endpoint declarations sharing a root namespace.
// Endpoint packages add their declarations to a catalog, usually from a
// Register function, and the catalog is handed to App.Register. Declaration
// order is registration order.
type Catalog struct {
	root      string
	endpoints []Endpoint
	models    map[reflect.Type]ResponseModel
}

// NewCatalog returns a catalog rooted at the package of root's type. root is
// typically the zero value of a placeholder type declared for this purpose.
//
// A nil root gives an empty root namespace: convention paths then span the
// full import path, and dots in the module host become segments, so
// example.com/shop.PlaceOrder resolves to /example/com/shop/placeorder.
// Explicit routes are unaffected.
func NewCatalog(root any) *Catalog {
	var ns string
	if t := derefType(reflect.TypeOf(root)); t != nil {
		ns = t.PkgPath()
	}
	return NewCatalogAt(ns)
}

// NewCatalogAt returns a catalog rooted at the given package path. An empty
// path behaves as described on NewCatalog.
func NewCatalogAt(rootNamespace string) *Catalog {
	return &Catalog{
		root:   rootNamespace,
		models: make(map[reflect.Type]ResponseModel),
	}
}

// Add appends endpoint declarations.
// It returns the catalog for chaining.
func (c *Catalog) Add(endpoints ...Endpoint) *Catalog {
	c.endpoints = append(c.endpoints, endpoints...)
	return c
}

// ResponseModel documents model as the 200 response of every endpoint whose
// request type is the type of request.
// It returns the catalog for chaining.
func (c *Catalog) ResponseModel(request, model any) *Catalog {
	c.models[derefType(reflect.TypeOf(request))] = Produces(http.StatusOK, model)
	return c
}

// Endpoints returns the declarations in order.
func (c *Catalog) Endpoints() []Endpoint {
	return append([]Endpoint(nil), c.endpoints...)
}

// Root returns the root namespace.
func (c *Catalog) Root() string {
	return c.root
}

func (c *Catalog) responseModel(requestType reflect.Type) *ResponseModel {
	if m, ok := c.models[derefType(requestType)]; ok {
		return &m
	}
	return nil
}
