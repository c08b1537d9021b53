package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finledger/internal/core"
)

const accountColumns = "id, owner_id, institution, kind, nickname, currency, initial_balance_cents, active, deleted_at, created_at, updated_at"

type AccountStore struct {
	db   *sql.DB
	life lifecycle[*core.Account]
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{
		db: db,
		life: lifecycle[*core.Account]{
			db:           db,
			table:        "accounts",
			columns:      accountColumns,
			ownerCol:     "owner_id",
			hasDeletedAt: true,
			hasUpdatedAt: true,
			scan:         scanAccount,
		},
	}
}

func scanAccount(s scanner) (*core.Account, error) {
	var (
		a         core.Account
		active    int64
		deletedAt sql.NullString
		createdAt string
		updatedAt string
	)
	err := s.Scan(&a.ID, &a.OwnerID, &a.Institution, (*string)(&a.Kind), &a.Nickname,
		&a.Currency, &a.InitialBalance.Cents, &active, &deletedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Active = active == 1
	if deletedAt.Valid {
		t, err := parseTime(deletedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse deleted_at: %w", err)
		}
		a.DeletedAt = &t
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}

// Insert persists the account as active and assigns its identity.
func (s *AccountStore) Insert(ctx context.Context, a *core.Account) (*core.Account, error) {
	now := time.Now().UTC().Truncate(time.Second)
	a.Active = true
	a.DeletedAt = nil
	a.CreatedAt, a.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (owner_id, institution, kind, nickname, currency, initial_balance_cents, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		a.OwnerID, a.Institution, string(a.Kind), a.Nickname, a.Currency,
		a.InitialBalance.Cents, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert account id: %w", err)
	}
	return a, nil
}

// Update persists the full row. The active flag is not part of the update;
// only SoftDelete changes it.
func (s *AccountStore) Update(ctx context.Context, a *core.Account) error {
	now := time.Now().UTC().Truncate(time.Second)
	a.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET owner_id = ?, institution = ?, kind = ?, nickname = ?, currency = ?, initial_balance_cents = ?, updated_at = ?
		WHERE id = ?`,
		a.OwnerID, a.Institution, string(a.Kind), a.Nickname, a.Currency,
		a.InitialBalance.Cents, formatTime(now), a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *AccountStore) GetActive(ctx context.Context, id int64) (*core.Account, error) {
	return s.life.getActive(ctx, id)
}

func (s *AccountStore) GetAny(ctx context.Context, id int64) (*core.Account, error) {
	return s.life.getAny(ctx, id)
}

func (s *AccountStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *AccountStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

func (s *AccountStore) ListActiveByOwner(ctx context.Context, ownerID int64) ([]*core.Account, error) {
	return s.life.listActiveByOwner(ctx, ownerID)
}
