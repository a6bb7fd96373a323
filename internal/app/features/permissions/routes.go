// internal/app/features/permissions/routes.go
package permissions

import (
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)
	r.Get("/", h.ServeList)
	r.Put("/", h.HandleSet)
	return r
}
