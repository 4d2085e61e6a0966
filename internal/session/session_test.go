package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"helpdesk/internal/domain"
	"helpdesk/internal/session"
)

func TestLoginCurrentLogout(t *testing.T) {
	s := session.Store{Path: filepath.Join(t.TempDir(), ".helpdesk", session.FileName)}
	if _, err := s.Current(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	u, err := s.Login("u42", "Ada", "ADMIN", "ada@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("role = %s", u.Role)
	}
	got, err := s.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.UserID != "u42" || got.Name != "Ada" || got.Email == nil || *got.Email != "ada@example.com" {
		t.Fatalf("unexpected session: %+v", got)
	}
	ok, err := s.Logout()
	if err != nil || !ok {
		t.Fatalf("logout = %v %v", ok, err)
	}
	if ok, _ := s.Logout(); ok {
		t.Fatalf("second logout should report nothing removed")
	}
}

func TestLoginNormalizesRole(t *testing.T) {
	s := session.Store{Path: filepath.Join(t.TempDir(), session.FileName)}
	u, err := s.Login("u1", "", "superuser", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleUser || u.Name != "u1" || u.Email != nil {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := s.Login(" ", "x", "user", ""); err == nil {
		t.Fatalf("blank user id should be rejected")
	}
}

func TestUnreadableSessionIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), session.FileName)
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (session.Store{Path: path}).Current(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
