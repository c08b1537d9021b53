package scope_test

import (
	"context"
	"path/filepath"
	"testing"

	"finledger/internal/core"
	"finledger/internal/scope"
	"finledger/internal/storage"
)

func newRulesFixture(t *testing.T) (*scope.Scoped[*core.AlertRule], *storage.Store, int64) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	owner, err := store.Users.Insert(ctx, &core.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
		Roles: []core.Role{core.RoleUser},
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return scope.NewRules(store.Rules), store, owner.ID
}

func TestCreateRejectsRuleMissingTypeFields(t *testing.T) {
	rules, store, ownerID := newRulesFixture(t)
	ctx := context.Background()

	// A CATEGORY_LIMIT rule without category and threshold must be refused
	// before it ever reaches the store.
	_, err := rules.Create(ctx, &core.AlertRule{
		Name: "no fields",
		Type: core.CategoryLimit,
	}, ownerID)
	verr, ok := core.AsValidation(err)
	if !ok {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}
	if !verr.Has("categoryId") || !verr.Has("thresholdAmount") {
		t.Errorf("flagged fields = %+v, want categoryId and thresholdAmount", verr.Fields)
	}

	persisted, err := store.Rules.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(persisted) != 0 {
		t.Fatalf("invalid rule was persisted: %+v", persisted[0])
	}
}

func TestUpdateCannotInvalidateRule(t *testing.T) {
	rules, store, ownerID := newRulesFixture(t)
	ctx := context.Background()

	cat, err := store.Categories.Insert(ctx, &core.Category{
		OwnerID: ownerID, Name: "Groceries", Direction: core.Outflow,
	})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}

	threshold := core.FromCents(50000)
	r, err := rules.Create(ctx, &core.AlertRule{
		Name:       "grocery budget",
		Type:       core.CategoryLimit,
		CategoryID: cat.ID,
		Threshold:  &threshold,
	}, ownerID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A patch stripping a type-required field must be refused and leave
	// the stored rule untouched.
	_, err = rules.Update(ctx, r.ID, ownerID, false, func(rule *core.AlertRule) {
		rule.Threshold = nil
	})
	if !core.IsValidation(err) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}

	got, err := store.Rules.GetActive(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if got.Threshold == nil || got.Threshold.Cents != 50000 {
		t.Errorf("stored rule changed by invalid patch: %+v", got)
	}
}

func TestCreateValidRulePersists(t *testing.T) {
	rules, store, ownerID := newRulesFixture(t)
	ctx := context.Background()

	acct, err := store.Accounts.Insert(ctx, &core.Account{
		OwnerID: ownerID, Institution: "Acme Bank",
		Kind: core.Checking, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}

	threshold := core.FromCents(10000)
	r, err := rules.Create(ctx, &core.AlertRule{
		Name:      "low balance",
		Type:      core.MinimumBalance,
		AccountID: acct.ID,
		Threshold: &threshold,
	}, ownerID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if r.OwnerID != ownerID {
		t.Errorf("OwnerID = %d, want %d", r.OwnerID, ownerID)
	}
	if _, err := store.Rules.GetActive(ctx, r.ID); err != nil {
		t.Errorf("GetActive() error = %v", err)
	}
}
