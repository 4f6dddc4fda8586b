package grain

import (
	"context"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

// Request takes the grain type from the route and the quantity from the JSON
// body. The grain type is optional, so the endpoint is declared twice.
type Request struct {
	GrainType string `path:"graintype"`
	Body      Body   `body:""`
}

type Body struct {
	DesiredQuantity int `json:"desiredQuantity" validate:"gt=0"`
}

type Response struct {
	GrainType       string `json:"grainType,omitempty"`
	DesiredQuantity int    `json:"desiredQuantity"`
}

type PostGrain struct{}

func (PostGrain) Handle(ctx context.Context, req Request) (minimalapi.Result, error) {
	return minimalapi.OK(Response{
		GrainType:       req.GrainType,
		DesiredQuantity: req.Body.DesiredQuantity,
	}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(
		minimalapi.Post("/grain/{graintype}", PostGrain{}, minimalapi.WithBinding(minimalapi.ByField)),
		minimalapi.Post("/grain", PostGrain{}, minimalapi.WithBinding(minimalapi.ByField)),
	).ResponseModel(Request{}, Response{})
	mediator.Handle[Request](m, PostGrain{})
}
