package scope

import (
	"finledger/internal/alerts"
	"finledger/internal/core"
	"finledger/internal/storage"
)

// Per-entity constructors binding each store to its validator. Everything
// that can be persisted passes validation here first; the stores themselves
// never re-check.

func NewAccounts(store *storage.AccountStore) *Scoped[*core.Account] {
	return New[*core.Account](store, (*core.Account).Validate)
}

func NewTransactions(store *storage.TransactionStore) *Scoped[*core.Transaction] {
	return New[*core.Transaction](store, (*core.Transaction).Validate)
}

func NewGoals(store *storage.GoalStore) *Scoped[*core.Goal] {
	return New[*core.Goal](store, (*core.Goal).Validate)
}

// NewRules binds alert rules to the type-dependent validation in the
// alerts package, so a rule the engine would reject is never persisted.
func NewRules(store *storage.AlertRuleStore) *Scoped[*core.AlertRule] {
	return New[*core.AlertRule](store, alerts.Validate)
}
