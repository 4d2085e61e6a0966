// Package session stores the identity of the operator between invocations
// in a flat JSON file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"helpdesk/internal/domain"
)

const FileName = "session.json"

var ErrNoSession = errors.New("not logged in")

// Store is a file-backed session provider.
type Store struct {
	Path string
}

// Current returns the logged-in user, or ErrNoSession when there is no
// readable session file.
func (s Store) Current() (*domain.User, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil || u.UserID == "" {
		return nil, ErrNoSession
	}
	u.Role = domain.NormalizeRole(string(u.Role))
	return &u, nil
}

// Login writes a new session, replacing any existing one. Roles other
// than admin are stored as user.
func (s Store) Login(userID, name, role, email string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if strings.TrimSpace(name) == "" {
		name = userID
	}
	u := &domain.User{
		UserID: userID,
		Name:   name,
		Role:   domain.NormalizeRole(role),
		Email:  domain.StringPtr(strings.TrimSpace(email)),
	}
	data, err := json.MarshalIndent(u, "", "    ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.Path, append(data, '\n'), 0o600); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return u, nil
}

// Logout removes the session file. It returns false when nobody was logged in.
func (s Store) Logout() (bool, error) {
	if err := os.Remove(s.Path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
