// internal/app/features/directory/routes.go
package directory

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Mount registers the directory endpoints on the /api router:
//
//	/categories  /zones  /business-plans  /businesses  /offers  /ads
//
// Reads are gated by the permission table; creates are admin-only.
func Mount(r chi.Router, h *Handler, perms authz.Checker) {
	can := func(uid, verb string) func(http.Handler) http.Handler {
		return authz.Require(perms, authz.Action(uid, verb), h.Log)
	}

	r.Route("/categories", func(cr chi.Router) {
		cr.With(can(models.CategoryUID, "find")).Get("/", h.ServeCategories)
		cr.With(auth.RequireAdmin).Post("/", h.HandleCreateCategory)
	})
	r.Route("/zones", func(zr chi.Router) {
		zr.With(can(models.ZoneUID, "find")).Get("/", h.ServeZones)
		zr.With(auth.RequireAdmin).Post("/", h.HandleCreateZone)
	})
	r.Route("/business-plans", func(pr chi.Router) {
		pr.With(can(models.BusinessPlanUID, "find")).Get("/", h.ServePlans)
		pr.With(auth.RequireAdmin).Post("/", h.HandleCreatePlan)
	})
	r.Route("/businesses", func(br chi.Router) {
		br.With(can(models.BusinessUID, "find")).Get("/", h.ServeBusinesses)
		br.With(can(models.BusinessUID, "findOne")).Get("/{slug}", h.ServeBusiness)
	})
	r.With(can(models.OfferUID, "find")).Get("/offers", h.ServeOffers)
	r.With(can(models.AdUID, "find")).Get("/ads", h.ServeAds)
}
