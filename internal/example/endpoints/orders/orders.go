// Package orders places orders against a store. Its route is derived from
// the package and handler names: POST /orders/placeorder.
package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/broady/minimalapi"
	"github.com/broady/minimalapi/internal/mediator"
)

// Request combines form fields with the store selected in the query string.
type Request struct {
	Order OrderForm
	Where *Location
}

func (Request) Annotations() []any {
	return []any{minimalapi.FormBinding{FormField: "Order", ParamField: "Where"}}
}

type OrderForm struct {
	Item     string `form:"item" validate:"required"`
	Quantity int    `form:"quantity" validate:"gte=1"`
}

type Location struct {
	Store string `query:"store" validate:"required"`
}

type Response struct {
	Confirmation string `json:"confirmation"`
}

type PlaceOrder struct{}

func (PlaceOrder) Handle(ctx context.Context, req Request) (minimalapi.Result, error) {
	return minimalapi.Created("/orders/"+req.Where.Store, Response{
		Confirmation: fmt.Sprintf("%d x %s from %s", req.Order.Quantity, req.Order.Item, req.Where.Store),
	}), nil
}

func Register(c *minimalapi.Catalog, m *mediator.Mediator) {
	c.Add(minimalapi.Post("", PlaceOrder{}, minimalapi.WithResponseModel(http.StatusCreated, Response{})))
	mediator.Handle[Request](m, PlaceOrder{})
}
