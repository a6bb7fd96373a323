// internal/app/features/pendingbusinesses/routes.go
package pendingbusinesses

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the pending-business endpoints (typically at
// "/api/pending-businesses").
//
// The CRUD routes carry no policy of their own: each is gated only by the
// role/permission table. Approve and reject are admin actions.
func Routes(h *Handler, perms authz.Checker, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	action := func(verb string) func(http.Handler) http.Handler {
		return authz.Require(perms, authz.Action(models.PendingBusinessUID, verb), h.Log)
	}

	create := []func(http.Handler) http.Handler{}
	if limiter != nil {
		create = append(create, ratelimit.PerIP(limiter, h.Log))
	}
	create = append(create, action("create"))

	r.With(action("find")).Get("/", h.ServeList)
	r.With(create...).Post("/", h.HandleCreate)
	r.With(action("findOne")).Get("/{documentId}", h.ServeOne)
	r.With(action("update")).Put("/{documentId}", h.HandleUpdate)
	r.With(action("delete")).Delete("/{documentId}", h.HandleDelete)

	// REVIEW
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)
		pr.Post("/{documentId}/approve", h.HandleApprove)
		pr.Post("/{documentId}/reject", h.HandleReject)
	})

	return r
}
