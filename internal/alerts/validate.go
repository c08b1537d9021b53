// Package alerts validates alert rule definitions and evaluates them
// against ledger aggregates.
//
// An AlertRule is a tagged variant over three types; which optional fields
// are required depends on the type. Validation is pure and must pass before
// a rule is ever persisted. Evaluation is read-only: it never mutates
// stored state, and storage failures propagate unchanged instead of being
// folded into a quiet "did not fire".
package alerts

import (
	"finledger/internal/core"
)

const (
	minWindowDays = 1
	maxWindowDays = 365
)

// Validate checks the type-dependent required-field contract. Every
// missing or invalid field is named in a single ValidationError.
func Validate(r *core.AlertRule) error {
	var verr core.ValidationError

	if r.Name == "" {
		verr.Add("name", "required")
	}

	switch r.Type {
	case core.CategoryLimit:
		if r.CategoryID == 0 {
			verr.Add("categoryId", "required for CATEGORY_LIMIT")
		}
		if r.Threshold == nil {
			verr.Add("thresholdAmount", "required for CATEGORY_LIMIT")
		} else if r.Threshold.Cents < 0 {
			verr.Add("thresholdAmount", "must not be negative")
		}
		if r.WindowDays != 0 && (r.WindowDays < minWindowDays || r.WindowDays > maxWindowDays) {
			verr.Addf("windowDays", "must be between %d and %d", minWindowDays, maxWindowDays)
		}
	case core.AnomalousSpend:
		if r.WindowDays < minWindowDays || r.WindowDays > maxWindowDays {
			verr.Addf("windowDays", "must be between %d and %d", minWindowDays, maxWindowDays)
		}
	case core.MinimumBalance:
		if r.AccountID == 0 {
			verr.Add("accountId", "required for MINIMUM_BALANCE")
		}
		if r.Threshold == nil {
			verr.Add("thresholdAmount", "required for MINIMUM_BALANCE")
		}
	case "":
		verr.Add("type", "required")
	default:
		verr.Addf("type", "unknown rule type %q", string(r.Type))
	}

	return verr.Err()
}
