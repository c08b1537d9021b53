package storage

import (
	"context"
	"database/sql"
	"fmt"

	"finledger/internal/core"
)

const categoryColumns = "id, owner_id, name, direction, is_global, active"

type CategoryStore struct {
	db   *sql.DB
	life lifecycle[*core.Category]
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{
		db: db,
		life: lifecycle[*core.Category]{
			db:       db,
			table:    "categories",
			columns:  categoryColumns,
			ownerCol: "owner_id",
			scan:     scanCategory,
		},
	}
}

func scanCategory(s scanner) (*core.Category, error) {
	var (
		c       core.Category
		ownerID sql.NullInt64
		global  int64
		active  int64
	)
	err := s.Scan(&c.ID, &ownerID, &c.Name, (*string)(&c.Direction), &global, &active)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		c.OwnerID = ownerID.Int64
	}
	c.Global = global == 1
	c.Active = active == 1
	return &c, nil
}

// Insert persists the category as active. A duplicate (owner, name,
// direction) among active rows is reported as ConflictError; soft-deleted
// names may be recreated.
func (s *CategoryStore) Insert(ctx context.Context, c *core.Category) (*core.Category, error) {
	c.Active = true

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (owner_id, name, direction, is_global, active)
		VALUES (?, ?, ?, ?, 1)`,
		nullID(c.OwnerID), c.Name, string(c.Direction), boolInt(c.Global))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &core.ConflictError{Constraint: "category name+direction already in use"}
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert category id: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *core.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET owner_id = ?, name = ?, direction = ?, is_global = ?
		WHERE id = ?`,
		nullID(c.OwnerID), c.Name, string(c.Direction), boolInt(c.Global), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Constraint: "category name+direction already in use"}
		}
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *CategoryStore) GetActive(ctx context.Context, id int64) (*core.Category, error) {
	return s.life.getActive(ctx, id)
}

func (s *CategoryStore) GetAny(ctx context.Context, id int64) (*core.Category, error) {
	return s.life.getAny(ctx, id)
}

func (s *CategoryStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return s.life.existsActive(ctx, id)
}

func (s *CategoryStore) SoftDelete(ctx context.Context, id int64) error {
	return s.life.softDelete(ctx, id)
}

func (s *CategoryStore) ListActiveByOwner(ctx context.Context, ownerID int64) ([]*core.Category, error) {
	return s.life.listActiveByOwner(ctx, ownerID)
}

// ListVisible returns the owner's active categories plus active global ones.
func (s *CategoryStore) ListVisible(ctx context.Context, ownerID int64) ([]*core.Category, error) {
	return s.life.selectMany(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE active = 1 AND (owner_id = ? OR is_global = 1)
		ORDER BY id`, ownerID)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
