package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"finledger/internal/core"
)

const userColumns = "id, name, email, password_hash, roles, active, created_at, updated_at"

type UserStore struct {
	db   *sql.DB
	life lifecycle[*core.User]
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{
		db: db,
		life: lifecycle[*core.User]{
			db:           db,
			table:        "users",
			columns:      userColumns,
			hasUpdatedAt: true,
			scan:         scanUser,
		},
	}
}

func scanUser(s scanner) (*core.User, error) {
	var (
		u         core.User
		roles     string
		active    int64
		createdAt string
		updatedAt string
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roles, &active,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	for _, r := range strings.Split(roles, ",") {
		if r != "" {
			u.Roles = append(u.Roles, core.Role(r))
		}
	}
	u.Active = active == 1
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &u, nil
}

func joinRoles(roles []core.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// Insert persists the user as active. Duplicate active emails are reported
// as ConflictError.
func (s *UserStore) Insert(ctx context.Context, u *core.User) (*core.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	u.Active = true
	u.CreatedAt, u.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, roles, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, joinRoles(u.Roles),
		formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &core.ConflictError{Constraint: "email already registered"}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, u *core.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	u.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, roles = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, joinRoles(u.Roles), formatTime(now), u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Constraint: "email already registered"}
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *UserStore) GetActive(ctx context.Context, id int64) (*core.User, error) {
	return s.life.getActive(ctx, id)
}

func (s *UserStore) GetAny(ctx context.Context, id int64) (*core.User, error) {
	return s.life.getAny(ctx, id)
}

func (s *UserStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *UserStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

// ListActive returns every active user, ordered by id.
func (s *UserStore) ListActive(ctx context.Context) ([]*core.User, error) {
	return s.life.listActive(ctx)
}

// GetActiveByEmail resolves a user for login flows.
func (s *UserStore) GetActiveByEmail(ctx context.Context, email string) (*core.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? AND active = 1", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
