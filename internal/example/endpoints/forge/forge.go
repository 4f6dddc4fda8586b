package forge

import (
	"context"
	"fmt"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

// Request is a form post that browsers may only submit from the same origin.
type Request struct {
	Metal  string `form:"metal" validate:"required"`
	Weight int    `form:"weight" validate:"required,gt=0"`
}

func (Request) Annotations() []any {
	return []any{minimalapi.FormBinding{AntiForgery: true}}
}

type Response struct {
	ForgeSummary string `json:"forgeSummary"`
}

type PostForgeForm struct{}

func (PostForgeForm) Handle(ctx context.Context, req Request) (minimalapi.Result, error) {
	return minimalapi.OK(Response{
		ForgeSummary: fmt.Sprintf("%s %doz", req.Metal, req.Weight),
	}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(minimalapi.Post("/forge", PostForgeForm{})).
		ResponseModel(Request{}, Response{})
	mediator.Handle[Request](m, PostForgeForm{})
}
