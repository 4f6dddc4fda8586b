package weather

import (
	"context"
	"fmt"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

type Request struct {
	Location string `path:"location" validate:"required"`
	State    string `query:"state" validate:"required"`
}

type Response struct {
	Weather string `json:"weather"`
}

type GetWeather struct{}

func (GetWeather) Annotations() []any {
	return []any{minimalapi.Summary("Current weather for a location"), minimalapi.Tags{"weather"}}
}

func (GetWeather) Handle(ctx context.Context, req Request) (minimalapi.Result, error) {
	return minimalapi.OK(Response{
		Weather: fmt.Sprintf("It is %s in %s", req.State, req.Location),
	}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(minimalapi.Get("/weather/{location}", GetWeather{})).
		ResponseModel(Request{}, Response{})
	mediator.Handle[Request](m, GetWeather{})
}
