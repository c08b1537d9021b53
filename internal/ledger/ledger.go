// Package ledger computes financial aggregates over a user's active
// transactions. Summation happens in SQL over int64 cents, so no precision
// is ever lost; an empty result set is 0.00, never an error.
//
// The aggregator takes no locks of its own. A read is a point-in-time scan
// over whatever is committed and active; concurrent writers may make two
// sequential reads differ, which is accepted behavior.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finledger/internal/core"
	"finledger/internal/storage"
)

type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// rangePredicates appends inclusive date bounds to a WHERE clause.
func rangePredicates(query string, args []any, r core.DateRange) (string, []any) {
	if !r.From.IsZero() {
		query += " AND tx_date >= ?"
		args = append(args, storage.FormatDate(r.From))
	}
	if !r.To.IsZero() {
		query += " AND tx_date <= ?"
		args = append(args, storage.FormatDate(r.To))
	}
	return query, args
}

func (l *Ledger) sumQuery(ctx context.Context, query string, args []any) (core.Money, error) {
	var cents int64
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	return core.FromCents(cents), nil
}

func (l *Ledger) sumDirection(ctx context.Context, ownerID int64, dir core.Direction, r core.DateRange) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE owner_id = ? AND active = 1 AND direction = ?`
	args := []any{ownerID, string(dir)}
	query, args = rangePredicates(query, args, r)
	return l.sumQuery(ctx, query, args)
}

// TotalInflow sums the owner's active INFLOW transactions in the range.
func (l *Ledger) TotalInflow(ctx context.Context, ownerID int64, r core.DateRange) (core.Money, error) {
	return l.sumDirection(ctx, ownerID, core.Inflow, r)
}

// TotalOutflow sums the owner's active OUTFLOW transactions in the range.
func (l *Ledger) TotalOutflow(ctx context.Context, ownerID int64, r core.DateRange) (core.Money, error) {
	return l.sumDirection(ctx, ownerID, core.Outflow, r)
}

// Balance is TotalInflow - TotalOutflow, exactly.
func (l *Ledger) Balance(ctx context.Context, ownerID int64, r core.DateRange) (core.Money, error) {
	s, err := l.Summary(ctx, ownerID, r)
	if err != nil {
		return core.Money{}, err
	}
	return s.Balance, nil
}

// Summary returns the {inflow, outflow, balance} triple for the range.
func (l *Ledger) Summary(ctx context.Context, ownerID int64, r core.DateRange) (core.Summary, error) {
	inflow, err := l.TotalInflow(ctx, ownerID, r)
	if err != nil {
		return core.Summary{}, err
	}
	outflow, err := l.TotalOutflow(ctx, ownerID, r)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summary{
		Inflow:  inflow,
		Outflow: outflow,
		Balance: inflow.Sub(outflow),
	}, nil
}

// SubtotalByCategory sums the owner's active transactions in one category.
func (l *Ledger) SubtotalByCategory(ctx context.Context, ownerID, categoryID int64, r core.DateRange) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE owner_id = ? AND active = 1 AND category_id = ?`
	args := []any{ownerID, categoryID}
	query, args = rangePredicates(query, args, r)
	return l.sumQuery(ctx, query, args)
}

// SubtotalsByCategory returns per-category sums for the range, for
// dashboard views. Categories without transactions are absent.
func (l *Ledger) SubtotalsByCategory(ctx context.Context, ownerID int64, r core.DateRange) ([]core.CategoryAmount, error) {
	query := `SELECT t.category_id, c.name, COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = ? AND t.active = 1`
	args := []any{ownerID}
	if !r.From.IsZero() {
		query += " AND t.tx_date >= ?"
		args = append(args, storage.FormatDate(r.From))
	}
	if !r.To.IsZero() {
		query += " AND t.tx_date <= ?"
		args = append(args, storage.FormatDate(r.To))
	}
	query += " GROUP BY t.category_id, c.name ORDER BY t.category_id"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category subtotals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.CategoryID, &ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category subtotal: %w", err)
		}
		out = append(out, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category subtotals: %w", err)
	}
	return out, nil
}

// AccountBalance is the account's initial balance plus every active inflow
// minus every active outflow recorded against it up to asOf inclusive.
// A missing or soft-deleted account is core.ErrNotFound.
func (l *Ledger) AccountBalance(ctx context.Context, ownerID, accountID int64, asOf time.Time) (core.Money, error) {
	var initial int64
	err := l.db.QueryRowContext(ctx, `
		SELECT initial_balance_cents FROM accounts
		WHERE id = ? AND owner_id = ? AND active = 1`,
		accountID, ownerID).Scan(&initial)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, core.ErrNotFound
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get account: %w", err)
	}

	var delta int64
	err = l.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'INFLOW' THEN amount_cents ELSE -amount_cents END), 0)
		FROM transactions
		WHERE owner_id = ? AND account_id = ? AND active = 1 AND tx_date <= ?`,
		ownerID, accountID, storage.FormatDate(asOf)).Scan(&delta)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum account transactions: %w", err)
	}

	return core.FromCents(initial + delta), nil
}
