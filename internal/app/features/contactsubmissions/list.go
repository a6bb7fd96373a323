// internal/app/features/contactsubmissions/list.go
package contactsubmissions

import (
	"net/http"
	"slices"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /api/contact-submissions?status=&page=&pageSize=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status != "" && !slices.Contains(models.ContactStatuses, status) {
		apierror.Write(w, r, h.Log, apierror.Validation("status must be one of new, read, replied"))
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contact list")
	defer cancel()

	items, total, err := h.Store.List(ctx, status, pg)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, paging.NewMeta(pg, total))
}

// ServeOne handles GET /api/contact-submissions/{id}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contact get")
	defer cancel()

	sub, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}
	jsonio.WriteData(w, http.StatusOK, sub)
}
