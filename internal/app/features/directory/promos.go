// internal/app/features/directory/promos.go
package directory

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeOffers handles GET /api/offers?zone=<slug>. Only active offers whose
// date window contains the current time are returned.
func (h *Handler) ServeOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "offer list")
	defer cancel()

	zoneID, found, err := h.zoneID(ctx, query.Get(r, "zone"))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if !found {
		jsonio.WriteList(w, http.StatusOK, []models.Offer{}, nil)
		return
	}

	items, err := h.Offers.Current(ctx, zoneID, h.Now())
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, nil)
}

// ServeAds handles GET /api/ads?placement=&zone=<slug>. With a zone, global
// ads are included alongside the zone's own.
func (h *Handler) ServeAds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ad list")
	defer cancel()

	zoneID, found, err := h.zoneID(ctx, query.Get(r, "zone"))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if !found {
		jsonio.WriteList(w, http.StatusOK, []models.Ad{}, nil)
		return
	}

	items, err := h.Ads.Current(ctx, query.Get(r, "placement"), zoneID, h.Now())
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, nil)
}
