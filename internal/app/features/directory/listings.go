// internal/app/features/directory/listings.go
package directory

import (
	"errors"
	"net/http"

	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// ServeBusinesses handles
// GET /api/businesses?zone=<slug>&category=<slug>&q=&featured=true&page=&pageSize=.
//
// An unknown zone or category slug yields an empty page, not an error.
func (h *Handler) ServeBusinesses(w http.ResponseWriter, r *http.Request) {
	pg := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "business list")
	defer cancel()

	zoneID, zoneFound, err := h.zoneID(ctx, query.Get(r, "zone"))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	categoryID, categoryFound, err := h.categoryID(ctx, query.Get(r, "category"))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if !zoneFound || !categoryFound {
		jsonio.WriteList(w, http.StatusOK, []models.Business{}, paging.NewMeta(pg, 0))
		return
	}

	items, total, err := h.Businesses.List(ctx, businessstore.Filter{
		ZoneID:     zoneID,
		CategoryID: categoryID,
		Query:      query.Search(r, "q"),
		Featured:   query.Get(r, "featured") == "true",
	}, pg)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, paging.NewMeta(pg, total))
}

// businessDetail is a listing with its current offers.
type businessDetail struct {
	models.Business
	Offers []models.Offer `json:"offers"`
}

// ServeBusiness handles GET /api/businesses/{slug}.
func (h *Handler) ServeBusiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "business get")
	defer cancel()

	b, err := h.Businesses.GetBySlug(ctx, chi.URLParam(r, "slug"))
	if errors.Is(err, businessstore.ErrNotFound) || (err == nil && b.Status != models.BusinessStatusActive) {
		apierror.Write(w, r, h.Log, apierror.NotFound("business not found"))
		return
	}
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}

	offers, err := h.Offers.ForBusiness(ctx, b.ID, h.Now())
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteData(w, http.StatusOK, businessDetail{Business: b, Offers: offers})
}
