package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finledger/internal/core"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// lifecycle implements the activation semantics shared by every entity
// table: active-filtered reads, idempotent soft delete and existence
// checks. Concrete stores compose it instead of inheriting from it.
type lifecycle[T any] struct {
	db       *sql.DB
	table    string
	columns  string
	ownerCol string // empty for tables without an owner column
	// tables that record delete/update timestamps
	hasDeletedAt bool
	hasUpdatedAt bool
	scan         func(scanner) (T, error)
}

// getActive returns the entity when active = 1, core.ErrNotFound otherwise.
func (l *lifecycle[T]) getActive(ctx context.Context, id int64) (T, error) {
	var zero T
	row := l.db.QueryRowContext(ctx,
		"SELECT "+l.columns+" FROM "+l.table+" WHERE id = ? AND active = 1", id)
	v, err := l.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, core.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", l.table, err)
	}
	return v, nil
}

// getAny returns the entity regardless of the active flag. This is the
// admin audit path.
func (l *lifecycle[T]) getAny(ctx context.Context, id int64) (T, error) {
	var zero T
	row := l.db.QueryRowContext(ctx,
		"SELECT "+l.columns+" FROM "+l.table+" WHERE id = ?", id)
	v, err := l.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, core.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", l.table, err)
	}
	return v, nil
}

func (l *lifecycle[T]) existsActive(ctx context.Context, id int64) (bool, error) {
	var one int64
	err := l.db.QueryRowContext(ctx,
		"SELECT 1 FROM "+l.table+" WHERE id = ? AND active = 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", l.table, err)
	}
	return true, nil
}

// softDelete marks the row inactive. It is idempotent: repeating it on an
// already inactive or missing id is a no-op, never an error. The first
// delete timestamp is kept on repeated calls.
func (l *lifecycle[T]) softDelete(ctx context.Context, id int64) error {
	query := "UPDATE " + l.table + " SET active = 0"
	var args []any
	if l.hasDeletedAt || l.hasUpdatedAt {
		now := formatTime(time.Now())
		if l.hasDeletedAt {
			query += ", deleted_at = COALESCE(deleted_at, ?)"
			args = append(args, now)
		}
		if l.hasUpdatedAt {
			query += ", updated_at = ?"
			args = append(args, now)
		}
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete %s: %w", l.table, err)
	}
	return nil
}

// listActive returns all active rows in stable id order.
func (l *lifecycle[T]) listActive(ctx context.Context) ([]T, error) {
	return l.selectMany(ctx,
		"SELECT "+l.columns+" FROM "+l.table+" WHERE active = 1 ORDER BY id")
}

// listActiveByOwner returns the owner's active rows in stable id order.
func (l *lifecycle[T]) listActiveByOwner(ctx context.Context, ownerID int64) ([]T, error) {
	if l.ownerCol == "" {
		return nil, fmt.Errorf("table %s has no owner column", l.table)
	}
	return l.selectMany(ctx,
		"SELECT "+l.columns+" FROM "+l.table+" WHERE active = 1 AND "+l.ownerCol+" = ? ORDER BY id",
		ownerID)
}

func (l *lifecycle[T]) selectMany(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := l.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", l.table, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", l.table, err)
	}
	return out, nil
}
