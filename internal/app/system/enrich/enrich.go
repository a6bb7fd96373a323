// internal/app/system/enrich/enrich.go
//
// Package enrich re-fetches admin content-manager results with their relations
// populated. Each item is fetched independently; a failed fetch keeps the
// item as the host returned it.
package enrich

import (
	"context"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/contentapi"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight re-fetches for one response.
const DefaultConcurrency = 8

// Fetcher loads one record by documentId with its relations populated.
type Fetcher[T contentapi.Document] interface {
	GetPopulated(ctx context.Context, documentID string) (T, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T contentapi.Document] func(ctx context.Context, documentID string) (T, error)

func (f FetcherFunc[T]) GetPopulated(ctx context.Context, documentID string) (T, error) {
	return f(ctx, documentID)
}

// Relations is an interceptor that populates relations for one content type.
type Relations[T contentapi.Document] struct {
	ContentType string
	Fetch       Fetcher[T]
	Log         *zap.Logger
	Concurrency int           // <= 0 means DefaultConcurrency
	Timeout     time.Duration // per fetch; 0 means timeouts.Short()
}

// Intercept implements contentapi.Interceptor.
func (e *Relations[T]) Intercept(ctx context.Context, req contentapi.Request, resp contentapi.Response[T]) contentapi.Response[T] {
	if !resp.Succeeded() || req.Area != contentapi.AreaAdmin || req.ContentType != e.ContentType {
		return resp
	}

	switch {
	case resp.Data != nil:
		resp.Data = e.single(ctx, resp.Data)
	case resp.Results != nil:
		resp.Results = e.list(ctx, resp.Results)
	}
	return resp
}

func (e *Relations[T]) single(ctx context.Context, item *T) *T {
	id := (*item).GetDocumentID()
	if id == "" {
		return item
	}
	populated, ok := e.fetch(ctx, id)
	if !ok {
		return item
	}
	return &populated
}

func (e *Relations[T]) list(ctx context.Context, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range items {
		id := items[i].GetDocumentID()
		if id == "" {
			continue
		}
		g.Go(func() error {
			if populated, ok := e.fetch(gctx, id); ok {
				out[i] = populated
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (e *Relations[T]) fetch(ctx context.Context, documentID string) (T, bool) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = timeouts.Short()
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	populated, err := e.Fetch.GetPopulated(fctx, documentID)
	if err != nil {
		e.logger().Warn("relation enrichment failed; keeping original",
			zap.String("content_type", e.ContentType),
			zap.String("document_id", documentID),
			zap.Error(err))
		var zero T
		return zero, false
	}
	return populated, true
}

func (e *Relations[T]) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
