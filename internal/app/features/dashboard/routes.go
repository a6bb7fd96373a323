// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/admin/dashboard").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)
		pr.Get("/", h.ServeDashboard)
	})
	return r
}
