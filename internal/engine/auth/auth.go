package auth

import (
	"errors"
	"fmt"

	"helpdesk/internal/domain"
)

// ForbiddenError indicates the current user lacks the required role.
type ForbiddenError struct {
	Role domain.Role
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("role %s required", e.Role)
}

// ErrLoginRequired is returned when a role is required and nobody is logged in.
var ErrLoginRequired = errors.New("login required; use helpdesk login")

// Require checks the single role flag. Admins satisfy every role.
func Require(u *domain.User, role domain.Role) error {
	if u == nil {
		return ErrLoginRequired
	}
	if u.Role == domain.RoleAdmin || u.Role == role {
		return nil
	}
	return ForbiddenError{Role: role}
}

// IsAdmin reports whether u carries the admin role.
func IsAdmin(u *domain.User) bool {
	return u != nil && u.Role == domain.RoleAdmin
}
