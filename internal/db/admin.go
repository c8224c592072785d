package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FindAdmin returns the credential record for username
func (d *DB) FindAdmin(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := d.queryRow(ctx, `
		SELECT id, username, password_hash, created_at FROM map_admin WHERE username = ?
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetAdminPassword stores passwordHash for username, creating the record if needed
func (d *DB) SetAdminPassword(ctx context.Context, username, passwordHash string) error {
	existing, err := d.FindAdmin(ctx, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing == nil {
		_, err := d.insert(ctx, "map_admin",
			[]string{"username", "password_hash", "created_at"},
			[]any{username, passwordHash, nowMillis()},
		)
		return err
	}
	var s setList
	s.add("password_hash", passwordHash)
	return d.update(ctx, "map_admin", existing.ID, s)
}
