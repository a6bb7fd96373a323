// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Checker answers whether role may perform action.
type Checker interface {
	Allowed(ctx context.Context, role, action string) (bool, error)
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// Anonymous callers get the public role.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.RolePublic, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed session; fail closed.
		return models.RolePublic, "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// Role returns the effective role of the caller.
func Role(r *http.Request) string {
	role, _, _, _ := UserCtx(r)
	return role
}

// Actor returns the identifier recorded as reviewer for admin actions:
// the admin's email when known, else the user id. Empty for anonymous callers.
func Actor(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// Action builds a permission action name, e.g.
// "api::pending-business.pending-business.create".
func Action(contentType, verb string) string {
	return contentType + "." + verb
}

// Require returns middleware that lets admins through and checks every
// other caller's role against the permission table. Denied callers get 403.
func Require(c Checker, action string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAdmin(r) {
				next.ServeHTTP(w, r)
				return
			}
			role := Role(r)
			ok, err := c.Allowed(r.Context(), role, action)
			if err != nil {
				log.Error("permission lookup failed", zap.String("role", role), zap.String("action", action), zap.Error(err))
				apierror.Write(w, r, log, err)
				return
			}
			if !ok {
				apierror.Write(w, r, log, apierror.Forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
