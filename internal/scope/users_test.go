package scope_test

import (
	"context"
	"path/filepath"
	"testing"

	"finledger/internal/core"
	"finledger/internal/scope"
	"finledger/internal/storage"
)

func newUsersFixture(t *testing.T) *scope.Users {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return scope.NewUsers(store.Users)
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	users := newUsersFixture(t)

	u, err := users.Register(context.Background(), &core.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(u.Roles) != 1 || u.Roles[0] != core.RoleUser {
		t.Errorf("Roles = %v, want [USER]", u.Roles)
	}
}

func TestUsersAreSelfScoped(t *testing.T) {
	users := newUsersFixture(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, &core.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	bob, err := users.Register(ctx, &core.User{
		Name: "Bob", Email: "bob@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := users.Get(ctx, alice.ID, alice.ID, false); err != nil {
		t.Errorf("self Get() error = %v", err)
	}
	if _, err := users.Get(ctx, alice.ID, bob.ID, false); !core.IsNotFound(err) {
		t.Errorf("foreign Get() error = %v, want ErrNotFound", err)
	}
	if _, err := users.Get(ctx, alice.ID, bob.ID, true); err != nil {
		t.Errorf("admin Get() error = %v", err)
	}
}

func TestNonAdminCannotEscalateRoles(t *testing.T) {
	users := newUsersFixture(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, &core.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := users.Update(ctx, alice.ID, alice.ID, false, func(u *core.User) {
		u.Name = "Alice B."
		u.Roles = []core.Role{core.RoleUser, core.RoleAdmin}
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "Alice B." {
		t.Errorf("Name = %q, patch was not applied", got.Name)
	}
	if got.IsAdmin() {
		t.Error("non-admin escalated their own roles")
	}

	promoted, err := users.Update(ctx, alice.ID, alice.ID, true, func(u *core.User) {
		u.Roles = []core.Role{core.RoleUser, core.RoleAdmin}
	})
	if err != nil {
		t.Fatalf("admin Update() error = %v", err)
	}
	if !promoted.IsAdmin() {
		t.Error("admin role change was not persisted")
	}
}

func TestDeletedUserCannotBeFetched(t *testing.T) {
	users := newUsersFixture(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, &core.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := users.Delete(ctx, alice.ID, alice.ID, false); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := users.Get(ctx, alice.ID, alice.ID, false); !core.IsNotFound(err) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
