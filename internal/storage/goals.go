package storage

import (
	"context"
	"database/sql"
	"fmt"

	"finledger/internal/core"
)

const goalColumns = "id, owner_id, title, target_cents, target_date, category_id, status, active"

type GoalStore struct {
	db   *sql.DB
	life lifecycle[*core.Goal]
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{
		db: db,
		life: lifecycle[*core.Goal]{
			db:       db,
			table:    "goals",
			columns:  goalColumns,
			ownerCol: "owner_id",
			scan:     scanGoal,
		},
	}
}

func scanGoal(s scanner) (*core.Goal, error) {
	var (
		g          core.Goal
		targetDate string
		categoryID sql.NullInt64
		active     int64
	)
	err := s.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Target.Cents, &targetDate,
		&categoryID, (*string)(&g.Status), &active)
	if err != nil {
		return nil, err
	}
	if g.TargetDate, err = ParseDate(targetDate); err != nil {
		return nil, fmt.Errorf("parse target_date: %w", err)
	}
	if categoryID.Valid {
		g.CategoryID = categoryID.Int64
	}
	g.Active = active == 1
	return &g, nil
}

func (s *GoalStore) Insert(ctx context.Context, g *core.Goal) (*core.Goal, error) {
	g.Active = true
	if g.Status == "" {
		g.Status = core.GoalActive
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (owner_id, title, target_cents, target_date, category_id, status, active)
		VALUES (?, ?, ?, ?, ?, ?, 1)`,
		g.OwnerID, g.Title, g.Target.Cents, FormatDate(g.TargetDate),
		nullID(g.CategoryID), string(g.Status))
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert goal id: %w", err)
	}
	return g, nil
}

func (s *GoalStore) Update(ctx context.Context, g *core.Goal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals
		SET owner_id = ?, title = ?, target_cents = ?, target_date = ?, category_id = ?, status = ?
		WHERE id = ?`,
		g.OwnerID, g.Title, g.Target.Cents, FormatDate(g.TargetDate),
		nullID(g.CategoryID), string(g.Status), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *GoalStore) GetActive(ctx context.Context, id int64) (*core.Goal, error) {
	return s.life.getActive(ctx, id)
}

func (s *GoalStore) GetAny(ctx context.Context, id int64) (*core.Goal, error) {
	return s.life.getAny(ctx, id)
}

func (s *GoalStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *GoalStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

func (s *GoalStore) ListActiveByOwner(ctx context.Context, ownerID int64) ([]*core.Goal, error) {
	return s.life.listActiveByOwner(ctx, ownerID)
}
