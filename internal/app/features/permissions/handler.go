// internal/app/features/permissions/handler.go
package permissions

import (
	"net/http"
	"strings"

	permissionstore "github.com/dalemusser/cercadeti/internal/app/store/permissions"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/inputval"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the role/permission table to admins.
type Handler struct {
	Store    *permissionstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    permissionstore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}

type setInput struct {
	Role    string `json:"role" validate:"required,oneof=public admin"`
	Action  string `json:"action" validate:"required,max=200"`
	Enabled bool   `json:"enabled"`
}

// ServeList handles GET /admin/permissions.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "permissions list")
	defer cancel()

	perms, err := h.Store.List(ctx)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteData(w, http.StatusOK, perms)
}

// HandleSet handles PUT /admin/permissions.
//
// Body: { "data": { "role": "public", "action": "api::offer.offer.find", "enabled": false } }
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var in setInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.Role = strings.TrimSpace(in.Role)
	in.Action = strings.TrimSpace(in.Action)
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "permissions set")
	defer cancel()

	p, err := h.Store.Set(ctx, in.Role, in.Action, in.Enabled)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}

	h.AuditLog.PermissionChanged(ctx, r, p.Role, p.Action, p.Enabled)
	h.Log.Info("permission changed",
		zap.String("role", p.Role),
		zap.String("action", p.Action),
		zap.Bool("enabled", p.Enabled))
	jsonio.WriteData(w, http.StatusOK, p)
}
