package auth

import (
	"errors"
	"testing"

	"helpdesk/internal/domain"
)

func TestRequire(t *testing.T) {
	admin := &domain.User{UserID: "a", Role: domain.RoleAdmin}
	user := &domain.User{UserID: "u", Role: domain.RoleUser}

	if err := Require(nil, domain.RoleUser); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("nil user: %v", err)
	}
	if err := Require(user, domain.RoleUser); err != nil {
		t.Fatalf("user role: %v", err)
	}
	if err := Require(admin, domain.RoleUser); err != nil {
		t.Fatalf("admin satisfies user: %v", err)
	}
	var forbidden ForbiddenError
	if err := Require(user, domain.RoleAdmin); !errors.As(err, &forbidden) || forbidden.Role != domain.RoleAdmin {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if !IsAdmin(admin) || IsAdmin(user) || IsAdmin(nil) {
		t.Fatalf("IsAdmin mismatch")
	}
}
