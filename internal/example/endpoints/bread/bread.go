package bread

import (
	"context"
	"fmt"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

// Request is posted as a url-encoded or multipart form.
type Request struct {
	Grain  string `form:"grain" validate:"required"`
	Weight int    `form:"weight" validate:"required,gt=0"`
}

func (Request) Annotations() []any {
	return []any{minimalapi.FormBinding{}}
}

type Response struct {
	BreadSummary string `json:"breadSummary"`
}

type PostBreadForm struct{}

func (PostBreadForm) Handle(ctx context.Context, req Request) (minimalapi.Result, error) {
	return minimalapi.OK(Response{
		BreadSummary: fmt.Sprintf("%s %doz", req.Grain, req.Weight),
	}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(minimalapi.Post("/bread", PostBreadForm{})).
		ResponseModel(Request{}, Response{})
	mediator.Handle[Request](m, PostBreadForm{})
}
