// internal/app/system/contentapi/contentapi.go
//
// Package contentapi defines the request/response shapes exchanged between the
// content-manager host and the post-processing interceptors registered on it.
package contentapi

import (
	"context"

	"github.com/dalemusser/cercadeti/internal/app/system/paging"
)

// Area identifies which surface served a request.
type Area string

const (
	AreaAdmin  Area = "admin"
	AreaPublic Area = "public"
)

// Request describes the call an interceptor is post-processing.
type Request struct {
	ContentType string // content-type UID, e.g. api::pending-business.pending-business
	Area        Area
	Method      string
	Path        string
}

// Document is anything addressable by a documentId.
type Document interface {
	GetDocumentID() string
}

// Response carries either a list (Results + Pagination) or a single record (Data).
type Response[T Document] struct {
	Status     int
	Results    []T
	Pagination *paging.Meta
	Data       *T
}

// Succeeded reports whether Status is 2xx.
func (r Response[T]) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsList reports whether the response is a list response.
func (r Response[T]) IsList() bool {
	return r.Data == nil && r.Results != nil
}

// Interceptor transforms a response after the host produced it.
type Interceptor[T Document] interface {
	Intercept(ctx context.Context, req Request, resp Response[T]) Response[T]
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc[T Document] func(ctx context.Context, req Request, resp Response[T]) Response[T]

func (f InterceptorFunc[T]) Intercept(ctx context.Context, req Request, resp Response[T]) Response[T] {
	return f(ctx, req, resp)
}

// Chain applies interceptors in registration order.
type Chain[T Document] []Interceptor[T]

// Apply runs every interceptor, feeding each the previous one's output.
func (c Chain[T]) Apply(ctx context.Context, req Request, resp Response[T]) Response[T] {
	for _, ic := range c {
		resp = ic.Intercept(ctx, req, resp)
	}
	return resp
}
