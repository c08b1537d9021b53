// Package scope is the single path through which callers reach stored
// entities. Every operation takes the caller identity (userID, admin)
// explicitly; there is no ambient authentication state.
//
// The security invariant: no mutation path trusts a client-supplied owner
// id. Owners are forced from the caller on create and re-asserted from the
// resolved entity on update. Non-admin misses and foreign-owner hits both
// come back as core.ErrNotFound, so entity existence never leaks.
package scope

import (
	"context"
	"fmt"

	"finledger/internal/core"
)

// Store is the slice of an entity store the scoping layer needs.
type Store[T core.Owned] interface {
	GetActive(ctx context.Context, id int64) (T, error)
	GetAny(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) error
	SoftDelete(ctx context.Context, id int64) error
	ListActiveByOwner(ctx context.Context, ownerID int64) ([]T, error)
}

// Scoped gates one entity type behind ownership checks and runs the
// entity's validation before anything is persisted.
type Scoped[T core.Owned] struct {
	store    Store[T]
	validate func(T) error
}

func New[T core.Owned](store Store[T], validate func(T) error) *Scoped[T] {
	return &Scoped[T]{store: store, validate: validate}
}

// Get resolves an entity for the caller. Admins read any row by id,
// bypassing the active filter as well (audit access). Everyone else gets
// the entity only when it is active and owned by them.
func (s *Scoped[T]) Get(ctx context.Context, id, userID int64, admin bool) (T, error) {
	var zero T
	if admin {
		return s.store.GetAny(ctx, id)
	}
	e, err := s.store.GetActive(ctx, id)
	if err != nil {
		return zero, err
	}
	if e.GetOwner() != userID {
		return zero, core.ErrNotFound
	}
	return e, nil
}

// Create persists the entity for the caller. Any owner the client supplied
// on the payload is overwritten with the caller identity. An entity that
// fails validation is never inserted.
func (s *Scoped[T]) Create(ctx context.Context, e T, userID int64) (T, error) {
	var zero T
	e.SetOwner(userID)
	if err := s.validate(e); err != nil {
		return zero, err
	}
	return s.store.Insert(ctx, e)
}

// Update resolves the entity through Get, applies the patch, re-asserts
// the resolved owner and re-validates before persisting, so a patch can
// neither reassign ownership nor leave an invalid entity behind.
func (s *Scoped[T]) Update(ctx context.Context, id, userID int64, admin bool, apply func(T)) (T, error) {
	var zero T
	e, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return zero, err
	}
	owner := e.GetOwner()
	apply(e)
	e.SetOwner(owner)
	if err := s.validate(e); err != nil {
		return zero, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return zero, fmt.Errorf("update scoped entity: %w", err)
	}
	return e, nil
}

// Delete resolves the entity through Get, then soft-deletes it.
func (s *Scoped[T]) Delete(ctx context.Context, id, userID int64, admin bool) error {
	if _, err := s.Get(ctx, id, userID, admin); err != nil {
		return err
	}
	return s.store.SoftDelete(ctx, id)
}

// List returns the caller's active entities in stable id order.
func (s *Scoped[T]) List(ctx context.Context, userID int64) ([]T, error) {
	return s.store.ListActiveByOwner(ctx, userID)
}
