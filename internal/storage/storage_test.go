package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finledger/internal/core"
	"finledger/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *storage.Store, email string) *core.User {
	t.Helper()
	u, err := store.Users.Insert(context.Background(), &core.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Roles:        []core.Role{core.RoleUser},
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, store *storage.Store, ownerID int64, name string) *core.Category {
	t.Helper()
	c, err := store.Categories.Insert(context.Background(), &core.Category{
		OwnerID:   ownerID,
		Name:      name,
		Direction: core.Outflow,
	})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	return c
}

func TestAccountLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "alice@example.com")

	a, err := store.Accounts.Insert(ctx, &core.Account{
		OwnerID:        owner.ID,
		Institution:    "Acme Bank",
		Kind:           core.Checking,
		Currency:       "EUR",
		InitialBalance: core.FromCents(10000),
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if a.ID == 0 || !a.Active {
		t.Fatalf("inserted account = %+v", a)
	}

	got, err := store.Accounts.GetActive(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if got.Institution != "Acme Bank" || got.InitialBalance.Cents != 10000 {
		t.Errorf("GetActive() = %+v", got)
	}

	if err := store.Accounts.SoftDelete(ctx, a.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := store.Accounts.GetActive(ctx, a.ID); !core.IsNotFound(err) {
		t.Errorf("GetActive() after delete = %v, want ErrNotFound", err)
	}

	// The row is retained for audit reads.
	any, err := store.Accounts.GetAny(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAny() error = %v", err)
	}
	if any.Active || any.DeletedAt == nil {
		t.Errorf("GetAny() after delete = %+v", any)
	}

	// Repeating the delete is a no-op keeping the first timestamp.
	first := *any.DeletedAt
	if err := store.Accounts.SoftDelete(ctx, a.ID); err != nil {
		t.Fatalf("second SoftDelete() error = %v", err)
	}
	again, err := store.Accounts.GetAny(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAny() error = %v", err)
	}
	if !again.DeletedAt.Equal(first) {
		t.Errorf("DeletedAt changed on repeat delete: %v -> %v", first, *again.DeletedAt)
	}
}

func TestSoftDeleteMissingIDIsNoop(t *testing.T) {
	store := newTestStore(t)
	if err := store.Accounts.SoftDelete(context.Background(), 9999); err != nil {
		t.Fatalf("SoftDelete(missing) error = %v", err)
	}
}

func TestCategoryUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "alice@example.com")

	c := seedCategory(t, store, owner.ID, "Groceries")

	_, err := store.Categories.Insert(ctx, &core.Category{
		OwnerID:   owner.ID,
		Name:      "Groceries",
		Direction: core.Outflow,
	})
	if !core.IsConflict(err) {
		t.Fatalf("duplicate insert error = %v, want conflict", err)
	}

	// Same name under a different owner is fine.
	other := seedUser(t, store, "bob@example.com")
	if _, err := store.Categories.Insert(ctx, &core.Category{
		OwnerID:   other.ID,
		Name:      "Groceries",
		Direction: core.Outflow,
	}); err != nil {
		t.Fatalf("other owner insert error = %v", err)
	}

	// Same name with the other direction is fine too.
	if _, err := store.Categories.Insert(ctx, &core.Category{
		OwnerID:   owner.ID,
		Name:      "Groceries",
		Direction: core.Inflow,
	}); err != nil {
		t.Fatalf("other direction insert error = %v", err)
	}

	// Uniqueness only binds active rows: delete then recreate.
	if err := store.Categories.SoftDelete(ctx, c.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := store.Categories.Insert(ctx, &core.Category{
		OwnerID:   owner.ID,
		Name:      "Groceries",
		Direction: core.Outflow,
	}); err != nil {
		t.Fatalf("recreate after delete error = %v", err)
	}
}

func TestUserEmailUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, store, "alice@example.com")

	_, err := store.Users.Insert(ctx, &core.User{
		Name:         "Imposter",
		Email:        "alice@example.com",
		PasswordHash: "y",
		Roles:        []core.Role{core.RoleUser},
	})
	if !core.IsConflict(err) {
		t.Fatalf("duplicate email error = %v, want conflict", err)
	}

	if err := store.Users.SoftDelete(ctx, u.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := store.Users.Insert(ctx, &core.User{
		Name:         "Alice Again",
		Email:        "alice@example.com",
		PasswordHash: "z",
		Roles:        []core.Role{core.RoleUser},
	}); err != nil {
		t.Fatalf("re-register after delete error = %v", err)
	}
}

func TestGetActiveByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "alice@example.com")

	u, err := store.Users.GetActiveByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetActiveByEmail() error = %v", err)
	}
	if u.Email != "alice@example.com" || !u.HasRole(core.RoleUser) {
		t.Errorf("GetActiveByEmail() = %+v", u)
	}

	if _, err := store.Users.GetActiveByEmail(ctx, "nobody@example.com"); !core.IsNotFound(err) {
		t.Errorf("missing email error = %v, want ErrNotFound", err)
	}
}

func TestTransactionSurvivesAccountDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "alice@example.com")
	cat := seedCategory(t, store, owner.ID, "Groceries")

	acct, err := store.Accounts.Insert(ctx, &core.Account{
		OwnerID:     owner.ID,
		Institution: "Acme Bank",
		Kind:        core.Checking,
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}

	tx, err := store.Transactions.Insert(ctx, &core.Transaction{
		OwnerID:     owner.ID,
		Description: "weekly shop",
		Amount:      core.FromCents(4500),
		Date:        time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Direction:   core.Outflow,
		CategoryID:  cat.ID,
		AccountID:   acct.ID,
	})
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}

	if err := store.Accounts.SoftDelete(ctx, acct.ID); err != nil {
		t.Fatalf("SoftDelete(account) error = %v", err)
	}

	// Deleting an account does not cascade to its transactions.
	got, err := store.Transactions.GetActive(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetActive(transaction) error = %v", err)
	}
	if got.AccountID != acct.ID || got.Amount.Cents != 4500 {
		t.Errorf("transaction after account delete = %+v", got)
	}
}

func TestUpdateMissingRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "alice@example.com")

	err := store.Accounts.Update(ctx, &core.Account{
		ID:          9999,
		OwnerID:     owner.ID,
		Institution: "Ghost Bank",
		Kind:        core.Checking,
		Currency:    "EUR",
	})
	if !core.IsNotFound(err) {
		t.Fatalf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAlertRuleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "alice@example.com")
	cat := seedCategory(t, store, owner.ID, "Groceries")

	threshold := core.FromCents(50000)
	r, err := store.Rules.Insert(ctx, &core.AlertRule{
		OwnerID:     owner.ID,
		Name:        "grocery budget",
		Type:        core.CategoryLimit,
		CategoryID:  cat.ID,
		Threshold:   &threshold,
		WindowDays:  30,
		NotifyEmail: true,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.Rules.GetActive(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if got.Type != core.CategoryLimit || got.CategoryID != cat.ID || got.WindowDays != 30 {
		t.Errorf("GetActive() = %+v", got)
	}
	if got.Threshold == nil || got.Threshold.Cents != 50000 {
		t.Errorf("Threshold = %v, want 50000 cents", got.Threshold)
	}
	if !got.NotifyEmail {
		t.Error("NotifyEmail lost in round trip")
	}

	rules, err := store.Rules.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(rules) != 1 || rules[0].ID != r.ID {
		t.Errorf("ListActive() = %+v", rules)
	}

	if err := store.Rules.SoftDelete(ctx, r.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	rules, err = store.Rules.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("ListActive() after delete = %+v", rules)
	}
}

func TestListActiveByOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com")
	bob := seedUser(t, store, "bob@example.com")

	for _, ownerID := range []int64{alice.ID, alice.ID, bob.ID} {
		if _, err := store.Accounts.Insert(ctx, &core.Account{
			OwnerID:     ownerID,
			Institution: "Acme Bank",
			Kind:        core.Savings,
			Currency:    "EUR",
		}); err != nil {
			t.Fatalf("insert account: %v", err)
		}
	}

	got, err := store.Accounts.ListActiveByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListActiveByOwner() returned %d accounts, want 2", len(got))
	}
	for _, a := range got {
		if a.OwnerID != alice.ID {
			t.Errorf("leaked foreign account %+v", a)
		}
	}
}

func TestErrNotFoundIsSentinel(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Goals.GetActive(context.Background(), 1)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want core.ErrNotFound", err)
	}
}
