package scope

import (
	"context"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// Categories scopes category access. Categories are the one entity with an
// exception to strict per-owner visibility: global categories have no owner
// and are readable by every user, but only admins may create, change or
// delete them.
type Categories struct {
	store *storage.CategoryStore
}

func NewCategories(store *storage.CategoryStore) *Categories {
	return &Categories{store: store}
}

func (s *Categories) Get(ctx context.Context, id, userID int64, admin bool) (*core.Category, error) {
	if admin {
		return s.store.GetAny(ctx, id)
	}
	c, err := s.store.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Global && c.OwnerID != userID {
		return nil, core.ErrNotFound
	}
	return c, nil
}

// Create persists a category for the caller. Non-admins cannot create
// global categories: the flag is dropped and the owner forced, the same way
// a client-supplied owner id is dropped.
func (s *Categories) Create(ctx context.Context, c *core.Category, userID int64, admin bool) (*core.Category, error) {
	if c.Global && admin {
		c.OwnerID = 0
	} else {
		c.Global = false
		c.OwnerID = userID
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, c)
}

func (s *Categories) Update(ctx context.Context, id, userID int64, admin bool, apply func(*core.Category)) (*core.Category, error) {
	c, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return nil, err
	}
	if c.Global && !admin {
		// Globals are visible to everyone but mutable by no one of them.
		return nil, core.ErrNotFound
	}
	owner, global := c.OwnerID, c.Global
	apply(c)
	c.OwnerID, c.Global = owner, global
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Categories) Delete(ctx context.Context, id, userID int64, admin bool) error {
	c, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return err
	}
	if c.Global && !admin {
		return core.ErrNotFound
	}
	return s.store.SoftDelete(ctx, id)
}

// List returns the caller's active categories plus the active globals.
func (s *Categories) List(ctx context.Context, userID int64) ([]*core.Category, error) {
	return s.store.ListVisible(ctx, userID)
}
