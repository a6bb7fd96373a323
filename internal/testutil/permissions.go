package testutil

import (
	"context"

	"github.com/dalemusser/cercadeti/internal/domain/models"
)

// Permissions is an in-memory permission table for handler tests.
// Keys are "role|action".
type Permissions map[string]bool

// AllowPublic returns a table granting the given actions to the public role.
func AllowPublic(actions ...string) Permissions {
	p := Permissions{}
	for _, a := range actions {
		p[models.RolePublic+"|"+a] = true
	}
	return p
}

// Allowed implements authz.Checker.
func (p Permissions) Allowed(_ context.Context, role, action string) (bool, error) {
	return p[role+"|"+action], nil
}
