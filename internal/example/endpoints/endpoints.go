// Package endpoints is the root of the example API. Convention-derived
// routes are computed relative to this package.
package endpoints

import (
	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/example/endpoints/bread"
	"github.com/broady/minimalapi/internal/example/endpoints/forge"
	"github.com/broady/minimalapi/internal/example/endpoints/grain"
	"github.com/broady/minimalapi/internal/example/endpoints/loaves"
	"github.com/broady/minimalapi/internal/example/endpoints/orders"
	"github.com/broady/minimalapi/internal/example/endpoints/weather"
	"github.com/broady/minimalapi/internal/mediator"
)

// Root anchors the catalog's root namespace.
type Root struct{}

// Catalog declares every example endpoint and registers its handler with m.
func Catalog(m *mediator.Mediator) *minimalapi.Catalog {
	c := minimalapi.NewCatalog(Root{})
	weather.Register(c, m)
	bread.Register(c, m)
	forge.Register(c, m)
	grain.Register(c, m)
	orders.Register(c, m)
	loaves.Register(c, m)
	return c
}
