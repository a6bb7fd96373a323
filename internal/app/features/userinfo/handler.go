// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
)

// Handler serves the signed-in admin's identity.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type userView struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role,omitempty"`
}

// ServeMe handles GET /admin/me.
//
// Response format:
//
//	{ "data": { "isAuthenticated": bool, "id": "...", "name": "...", "email": "...", "role": "admin" } }
//
// Anonymous callers get isAuthenticated=false rather than a 401, so the
// admin frontend can check its session without error handling.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		jsonio.WriteData(w, http.StatusOK, userView{})
		return
	}
	jsonio.WriteData(w, http.StatusOK, userView{
		IsAuthenticated: true,
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
	})
}
