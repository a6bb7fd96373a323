// internal/app/features/contentmanager/routes.go
package contentmanager

import (
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the read endpoints under the caller's base path
// (typically "/admin/content-manager"). Admin session required.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)
	r.Get("/collection-types/{uid}", h.ServeList)
	r.Get("/collection-types/{uid}/{documentId}", h.ServeOne)
	return r
}
