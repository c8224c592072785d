// Package auth checks editor credentials against the map_admin table.
//
// Stored hashes are bcrypt. Records written before hashing was introduced hold
// the password itself; those are compared in constant time and should be
// rewritten with `geojournal admin set-password`.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"geojournal/internal/db"
	"geojournal/internal/logging"
)

// Store looks up credential records
type Store interface {
	FindAdmin(ctx context.Context, username string) (*db.Admin, error)
}

var _ Store = (*db.DB)(nil)

// Checker authenticates editors
type Checker struct {
	store Store
	log   *slog.Logger
}

// NewChecker returns a Checker over store
func NewChecker(store Store, logger *slog.Logger) *Checker {
	return &Checker{store: store, log: logging.ForModule(logger, "auth")}
}

// Authenticate reports whether password matches the record for username.
// An unknown username is a mismatch, not an error. There is no lockout.
func (c *Checker) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	admin, err := c.store.FindAdmin(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %q: %w", username, err)
	}
	if !isHashed(admin.PasswordHash) {
		c.log.Warn("credential stored without hashing", "username", username)
	}
	return Verify(admin.PasswordHash, password), nil
}

// HashPassword returns the bcrypt hash stored for password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

// Verify compares password with a stored bcrypt hash, or with a legacy
// plaintext value when stored is not a bcrypt hash.
func Verify(stored, password string) bool {
	if isHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func isHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}
