package scope

import (
	"context"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// Users scopes user records: a user is their own owner. Non-admins can read
// and update only themselves, and cannot touch their role set.
type Users struct {
	store *storage.UserStore
}

func NewUsers(store *storage.UserStore) *Users {
	return &Users{store: store}
}

func (s *Users) Get(ctx context.Context, id, userID int64, admin bool) (*core.User, error) {
	if admin {
		return s.store.GetAny(ctx, id)
	}
	if id != userID {
		return nil, core.ErrNotFound
	}
	return s.store.GetActive(ctx, id)
}

// Register creates a user. Registration is the one unscoped create: there
// is no caller identity yet. Roles default to USER.
func (s *Users) Register(ctx context.Context, u *core.User) (*core.User, error) {
	if len(u.Roles) == 0 {
		u.Roles = []core.Role{core.RoleUser}
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, u)
}

func (s *Users) Update(ctx context.Context, id, userID int64, admin bool, apply func(*core.User)) (*core.User, error) {
	u, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return nil, err
	}
	roles := u.Roles
	apply(u)
	if !admin {
		// Only an administrative override may change the role set.
		u.Roles = roles
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Users) Delete(ctx context.Context, id, userID int64, admin bool) error {
	if _, err := s.Get(ctx, id, userID, admin); err != nil {
		return err
	}
	return s.store.SoftDelete(ctx, id)
}
