// Package loaves bakes loaves from a JSON recipe: POST /loaves/bakeloaf.
package loaves

import (
	"context"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

type Recipe struct {
	Flour string `json:"flour" validate:"required"`
	Grams int    `json:"grams" validate:"gte=100"`
}

type Loaf struct {
	Flour string `json:"flour"`
	Grams int    `json:"grams"`
	Baked bool   `json:"baked"`
}

type BakeLoaf struct{}

func (*BakeLoaf) Handle(ctx context.Context, req *Recipe) (minimalapi.Result, error) {
	return minimalapi.OK(Loaf{Flour: req.Flour, Grams: req.Grams, Baked: true}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(minimalapi.Post("", &BakeLoaf{})).
		ResponseModel(&Recipe{}, Loaf{})
	mediator.Handle[*Recipe](m, &BakeLoaf{})
}
