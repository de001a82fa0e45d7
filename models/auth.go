package models

import (
	"context"

	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

// requireRole guards the write paths even when a caller bypasses the HTTP
// boundary. The role is threaded through the request context by the auth
// middleware, never read from a global.
func requireRole(ctx context.Context, roles ...UserRole) error {
	roleValue, ok := utils.GetUserRoleFromContext(ctx)
	if !ok || roleValue == "" {
		return utils.NewAppError(utils.ErrorKindForbidden, "role", "caller role is required")
	}
	role := UserRole(roleValue)
	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}
	return utils.NewAppError(utils.ErrorKindForbidden, "role", "insufficient permissions")
}
