package application

import "github.com/oksasatya/jobboard-api/internal/domain/entity"

// Guard authorizes p for op: it must be authenticated, online and hold one
// of roles (any role when none given).
func Guard(p entity.Principal, op string, roles ...entity.Role) error {
	if err := RequireAuthenticated(p, op); err != nil {
		return err
	}
	if !p.Online() {
		return newError(op, ErrPresenceRequired, "user must be online")
	}
	if !p.HasRole(roles...) {
		return newError(op, ErrForbidden, "role "+string(p.Role)+" is not allowed to do this")
	}
	return nil
}

// RequireAuthenticated checks identity only; presence is not required.
func RequireAuthenticated(p entity.Principal, op string) error {
	if !p.Authenticated() {
		return newError(op, ErrUnauthenticated, "authentication required")
	}
	return nil
}
