// internal/app/features/contactsubmissions/routes.go
package contactsubmissions

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the contact-submission endpoints (typically at
// "/api/contact-submissions"). limiter may be nil to disable per-IP limits.
func Routes(h *Handler, perms authz.Checker, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// CREATE (public form)
	create := []func(http.Handler) http.Handler{}
	if limiter != nil {
		create = append(create, ratelimit.PerIP(limiter, h.Log))
	}
	create = append(create, authz.Require(perms, authz.Action(models.ContactSubmissionUID, "create"), h.Log))
	r.With(create...).Post("/", h.HandleCreate)

	// Admin inbox
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeOne)
		pr.Post("/{id}/mark-read", h.HandleMarkRead)
		pr.Post("/{id}/mark-replied", h.HandleMarkReplied)
	})

	return r
}
