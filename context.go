package minimalapi

import (
	"context"
	"net/http"
)

type contextKey struct {
	name string
}

var (
	requestKey    = &contextKey{"request"}
	descriptorKey = &contextKey{"descriptor"}
)

// RequestFromContext returns the HTTP request from the context.
func RequestFromContext(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(requestKey).(*http.Request); ok {
		return r
	}
	return nil
}

// DescriptorFromContext returns the descriptor of the endpoint serving the
// current request. Route metadata annotations are available on it.
func DescriptorFromContext(ctx context.Context) (*Descriptor, bool) {
	d, ok := ctx.Value(descriptorKey).(*Descriptor)
	return d, ok
}

func newContext(ctx context.Context, r *http.Request, d *Descriptor) context.Context {
	ctx = context.WithValue(ctx, requestKey, r)
	ctx = context.WithValue(ctx, descriptorKey, d)
	return ctx
}
