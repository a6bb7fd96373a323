// internal/app/features/contentmanager/handler.go
package contentmanager

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/contentapi"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Source loads the records of one content type for the admin panel.
type Source[T contentapi.Document] struct {
	List func(ctx context.Context, r *http.Request, pg paging.Page) ([]T, int64, error)
	Get  func(ctx context.Context, documentID string) (T, error)
	// NotFound is the error Get returns for an unknown documentId.
	NotFound error
}

// collection erases the record type so differently typed content types can
// share one route table.
type collection interface {
	serveList(w http.ResponseWriter, r *http.Request, log *zap.Logger)
	serveOne(w http.ResponseWriter, r *http.Request, documentID string, log *zap.Logger)
}

// Handler serves the admin content-manager read endpoints.
type Handler struct {
	Log         *zap.Logger
	collections map[string]collection
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger, collections: map[string]collection{}}
}

// Register adds a content type under uid. Interceptors run in the order given
// on every response for that content type.
func Register[T contentapi.Document](h *Handler, uid string, src Source[T], chain ...contentapi.Interceptor[T]) {
	h.collections[uid] = &typedCollection[T]{uid: uid, src: src, chain: contentapi.Chain[T](chain)}
}

// UIDs lists the registered content types.
func (h *Handler) UIDs() []string {
	out := make([]string, 0, len(h.collections))
	for uid := range h.collections {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// ServeList handles GET /admin/content-manager/collection-types/{uid}.
//
// Response: { "results": [...], "pagination": { "page":1, "pageSize":25, "pageCount":1, "total":2 } }
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	c.serveList(w, r, h.Log)
}

// ServeOne handles GET /admin/content-manager/collection-types/{uid}/{documentId}.
//
// Response: { "data": { ... } }
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	c.serveOne(w, r, chi.URLParam(r, "documentId"), h.Log)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (collection, bool) {
	uid := chi.URLParam(r, "uid")
	c, ok := h.collections[uid]
	if !ok {
		apierror.Write(w, r, h.Log, apierror.NotFound("unknown content type "+uid))
		return nil, false
	}
	return c, true
}

type typedCollection[T contentapi.Document] struct {
	uid   string
	src   Source[T]
	chain contentapi.Chain[T]
}

type listBody[T any] struct {
	Results    []T          `json:"results"`
	Pagination *paging.Meta `json:"pagination"`
}

func (c *typedCollection[T]) request(r *http.Request) contentapi.Request {
	return contentapi.Request{
		ContentType: c.uid,
		Area:        contentapi.AreaAdmin,
		Method:      r.Method,
		Path:        r.URL.Path,
	}
}

func (c *typedCollection[T]) serveList(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	pg := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), log, "content-manager list "+c.uid)
	items, total, err := c.src.List(ctx, r, pg)
	cancel()
	if err != nil {
		apierror.Write(w, r, log, apierror.Server(err))
		return
	}
	if items == nil {
		items = []T{}
	}

	meta := paging.NewMeta(pg, total)
	resp := c.chain.Apply(r.Context(), c.request(r), contentapi.Response[T]{
		Status:     http.StatusOK,
		Results:    items,
		Pagination: &meta,
	})
	jsonio.WriteJSON(w, resp.Status, listBody[T]{Results: resp.Results, Pagination: resp.Pagination})
}

func (c *typedCollection[T]) serveOne(w http.ResponseWriter, r *http.Request, documentID string, log *zap.Logger) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), log, "content-manager get "+c.uid)
	item, err := c.src.Get(ctx, documentID)
	cancel()
	if err != nil {
		if c.src.NotFound != nil && errors.Is(err, c.src.NotFound) {
			apierror.Write(w, r, log, apierror.NotFound(""))
			return
		}
		apierror.Write(w, r, log, apierror.Server(err))
		return
	}

	resp := c.chain.Apply(r.Context(), c.request(r), contentapi.Response[T]{
		Status: http.StatusOK,
		Data:   &item,
	})
	jsonio.WriteData(w, resp.Status, resp.Data)
}
