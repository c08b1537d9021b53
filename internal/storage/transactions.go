package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finledger/internal/core"
)

const transactionColumns = "id, owner_id, description, amount_cents, tx_date, direction, category_id, account_id, active, deleted_at, created_at, updated_at"

type TransactionStore struct {
	db   *sql.DB
	life lifecycle[*core.Transaction]
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{
		db: db,
		life: lifecycle[*core.Transaction]{
			db:           db,
			table:        "transactions",
			columns:      transactionColumns,
			ownerCol:     "owner_id",
			hasDeletedAt: true,
			hasUpdatedAt: true,
			scan:         scanTransaction,
		},
	}
}

func scanTransaction(s scanner) (*core.Transaction, error) {
	var (
		t         core.Transaction
		txDate    string
		accountID sql.NullInt64
		active    int64
		deletedAt sql.NullString
		createdAt string
		updatedAt string
	)
	err := s.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Amount.Cents, &txDate,
		(*string)(&t.Direction), &t.CategoryID, &accountID, &active,
		&deletedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if t.Date, err = ParseDate(txDate); err != nil {
		return nil, fmt.Errorf("parse tx_date: %w", err)
	}
	if accountID.Valid {
		t.AccountID = accountID.Int64
	}
	t.Active = active == 1
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &t, nil
}

// Insert persists the transaction as active and assigns its identity.
func (s *TransactionStore) Insert(ctx context.Context, t *core.Transaction) (*core.Transaction, error) {
	now := time.Now().UTC().Truncate(time.Second)
	t.Active = true
	t.CreatedAt, t.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (owner_id, description, amount_cents, tx_date, direction, category_id, account_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		t.OwnerID, t.Description, t.Amount.Cents, FormatDate(t.Date),
		string(t.Direction), t.CategoryID, nullID(t.AccountID),
		formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert transaction id: %w", err)
	}
	return t, nil
}

func (s *TransactionStore) Update(ctx context.Context, t *core.Transaction) error {
	now := time.Now().UTC().Truncate(time.Second)
	t.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET owner_id = ?, description = ?, amount_cents = ?, tx_date = ?, direction = ?, category_id = ?, account_id = ?, updated_at = ?
		WHERE id = ?`,
		t.OwnerID, t.Description, t.Amount.Cents, FormatDate(t.Date),
		string(t.Direction), t.CategoryID, nullID(t.AccountID),
		formatTime(now), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *TransactionStore) GetActive(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.life.getActive(ctx, id)
}

func (s *TransactionStore) GetAny(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.life.getAny(ctx, id)
}

func (s *TransactionStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *TransactionStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

func (s *TransactionStore) ListActiveByOwner(ctx context.Context, ownerID int64) ([]*core.Transaction, error) {
	return s.life.listActiveByOwner(ctx, ownerID)
}
