package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finledger/internal/core"
)

const ruleColumns = "id, owner_id, name, rule_type, category_id, account_id, threshold_cents, window_days, active, notify_email, created_at, updated_at"

type AlertRuleStore struct {
	db   *sql.DB
	life lifecycle[*core.AlertRule]
}

func NewAlertRuleStore(db *sql.DB) *AlertRuleStore {
	return &AlertRuleStore{
		db: db,
		life: lifecycle[*core.AlertRule]{
			db:           db,
			table:        "alert_rules",
			columns:      ruleColumns,
			ownerCol:     "owner_id",
			hasUpdatedAt: true,
			scan:         scanAlertRule,
		},
	}
}

func scanAlertRule(s scanner) (*core.AlertRule, error) {
	var (
		r          core.AlertRule
		categoryID sql.NullInt64
		accountID  sql.NullInt64
		threshold  sql.NullInt64
		active     int64
		notify     int64
		createdAt  string
		updatedAt  string
	)
	err := s.Scan(&r.ID, &r.OwnerID, &r.Name, (*string)(&r.Type), &categoryID,
		&accountID, &threshold, &r.WindowDays, &active, &notify, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		r.CategoryID = categoryID.Int64
	}
	if accountID.Valid {
		r.AccountID = accountID.Int64
	}
	if threshold.Valid {
		m := core.FromCents(threshold.Int64)
		r.Threshold = &m
	}
	r.Active = active == 1
	r.NotifyEmail = notify == 1
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &r, nil
}

func nullThreshold(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

// Insert persists the rule as active. The scoping layer runs the alerts
// validation before any rule reaches this store.
func (s *AlertRuleStore) Insert(ctx context.Context, r *core.AlertRule) (*core.AlertRule, error) {
	now := time.Now().UTC().Truncate(time.Second)
	r.Active = true
	r.CreatedAt, r.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_rules (owner_id, name, rule_type, category_id, account_id, threshold_cents, window_days, active, notify_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		r.OwnerID, r.Name, string(r.Type), nullID(r.CategoryID), nullID(r.AccountID),
		nullThreshold(r.Threshold), r.WindowDays, boolInt(r.NotifyEmail),
		formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert alert rule: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert alert rule id: %w", err)
	}
	return r, nil
}

func (s *AlertRuleStore) Update(ctx context.Context, r *core.AlertRule) error {
	now := time.Now().UTC().Truncate(time.Second)
	r.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		UPDATE alert_rules
		SET owner_id = ?, name = ?, rule_type = ?, category_id = ?, account_id = ?, threshold_cents = ?, window_days = ?, notify_email = ?, updated_at = ?
		WHERE id = ?`,
		r.OwnerID, r.Name, string(r.Type), nullID(r.CategoryID), nullID(r.AccountID),
		nullThreshold(r.Threshold), r.WindowDays, boolInt(r.NotifyEmail),
		formatTime(now), r.ID)
	if err != nil {
		return fmt.Errorf("update alert rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update alert rule rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *AlertRuleStore) GetActive(ctx context.Context, id int64) (*core.AlertRule, error) {
	return s.life.getActive(ctx, id)
}

func (s *AlertRuleStore) GetAny(ctx context.Context, id int64) (*core.AlertRule, error) {
	return s.life.getAny(ctx, id)
}

func (s *AlertRuleStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *AlertRuleStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

func (s *AlertRuleStore) ListActive(ctx context.Context) ([]*core.AlertRule, error) {
	return s.life.listActive(ctx)
}

func (s *AlertRuleStore) ListActiveByOwner(ctx context.Context, ownerID int64) ([]*core.AlertRule, error) {
	return s.life.listActiveByOwner(ctx, ownerID)
}
