// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /admin/logout. It always answers 200, signed in
// or not, and expires the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// Still answer OK; the cookie may be unreadable but the client is leaving.
		h.Log.Error("logout: save session", zap.Error(err))
	}

	jsonio.WriteData(w, http.StatusOK, map[string]bool{"loggedOut": true})
}
