// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	adminstore "github.com/dalemusser/cercadeti/internal/app/store/admins"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// invalidCredentials is the single message for unknown email, wrong password
// and disabled accounts, so callers cannot learn which emails exist.
const invalidCredentials = "Invalid email or password"

type Handler struct {
	Admins     *adminstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Admins:     adminstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminView is what the API exposes about the signed-in admin.
type adminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// HandleLogin handles POST /admin/login.
//
// Body: { "email": "...", "password": "..." }
// On success the session cookie is set and the admin is returned under "data".
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.Email = strings.TrimSpace(in.Email)

	var details []apierror.Detail
	if in.Email == "" {
		details = append(details, apierror.Required("email"))
	}
	if in.Password == "" {
		details = append(details, apierror.Required("password"))
	}
	if len(details) > 0 {
		apierror.Write(w, r, h.Log, apierror.Validation("", details...))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin login")
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email)
			apierror.Write(w, r, h.Log, apierror.TooManyRequests(reason))
			return
		}
	}

	admin, err := h.Admins.GetByEmail(ctx, in.Email)
	if errors.Is(err, adminstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
		apierror.Write(w, r, h.Log, apierror.Unauthorized(invalidCredentials))
		return
	}
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if err := adminstore.CheckPassword(admin, in.Password); err != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, admin.ID, admin.Email)
		apierror.Write(w, r, h.Log, apierror.Unauthorized(invalidCredentials))
		return
	}
	if admin.Status == adminstore.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, admin.ID, admin.Email)
		apierror.Write(w, r, h.Log, apierror.Unauthorized(invalidCredentials))
		return
	}

	user := auth.SessionUser{
		ID:    admin.ID.Hex(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  models.RoleAdmin,
	}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}

	h.AuditLog.LoginSuccess(ctx, r, admin.ID, admin.Email)
	jsonio.WriteData(w, http.StatusOK, adminView{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role})
}
