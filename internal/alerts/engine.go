package alerts

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/core"
)

// Ledger is the slice of the aggregator the engine evaluates against.
type Ledger interface {
	SubtotalByCategory(ctx context.Context, ownerID, categoryID int64, r core.DateRange) (core.Money, error)
	TotalOutflow(ctx context.Context, ownerID int64, r core.DateRange) (core.Money, error)
	AccountBalance(ctx context.Context, ownerID, accountID int64, asOf time.Time) (core.Money, error)
}

// Evaluation is the outcome of evaluating one rule at one instant.
type Evaluation struct {
	Fired   bool
	Message string
}

// Engine evaluates rules against ledger state. It holds no state of its
// own: evaluating the same rule against unchanged data is idempotent.
type Engine struct {
	ledger Ledger
}

func NewEngine(ledger Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// baselineWindows is how many preceding windows of equal length feed the
// anomalous-spend baseline.
const baselineWindows = 6

// anomalyNum/anomalyDen: a window fires when spend exceeds 3/2 of the
// baseline mean. Kept as a ratio so the comparison stays in exact integers.
const (
	anomalyNum = 3
	anomalyDen = 2
)

// Evaluate applies the rule to current ledger state as of the given
// instant. Storage failures are returned as-is and never reported as a
// rule that did not fire.
func (e *Engine) Evaluate(ctx context.Context, r *core.AlertRule, asOf time.Time) (Evaluation, error) {
	if err := Validate(r); err != nil {
		return Evaluation{}, err
	}

	switch r.Type {
	case core.CategoryLimit:
		return e.evaluateCategoryLimit(ctx, r, asOf)
	case core.AnomalousSpend:
		return e.evaluateAnomalousSpend(ctx, r, asOf)
	case core.MinimumBalance:
		return e.evaluateMinimumBalance(ctx, r, asOf)
	default:
		// Unreachable after Validate.
		return Evaluation{}, fmt.Errorf("evaluate: unknown rule type %q", r.Type)
	}
}

// ruleWindow is the range a CATEGORY_LIMIT rule is summed over: the rule's
// own window when set, otherwise the calendar month containing asOf.
func ruleWindow(r *core.AlertRule, asOf time.Time) core.DateRange {
	if r.WindowDays > 0 {
		return core.LastDays(asOf, r.WindowDays)
	}
	return core.MonthOf(asOf)
}

func (e *Engine) evaluateCategoryLimit(ctx context.Context, r *core.AlertRule, asOf time.Time) (Evaluation, error) {
	spent, err := e.ledger.SubtotalByCategory(ctx, r.OwnerID, r.CategoryID, ruleWindow(r, asOf))
	if err != nil {
		return Evaluation{}, fmt.Errorf("category subtotal: %w", err)
	}
	if spent.Cmp(*r.Threshold) <= 0 {
		return Evaluation{}, nil
	}
	return Evaluation{
		Fired: true,
		Message: fmt.Sprintf("%s: category spend %s exceeds limit %s",
			r.Name, spent, *r.Threshold),
	}, nil
}

func (e *Engine) evaluateAnomalousSpend(ctx context.Context, r *core.AlertRule, asOf time.Time) (Evaluation, error) {
	current, err := e.windowSpend(ctx, r, core.LastDays(asOf, r.WindowDays))
	if err != nil {
		return Evaluation{}, fmt.Errorf("current window spend: %w", err)
	}

	// Baseline: mean spend of up to baselineWindows preceding windows of
	// equal length. Windows with no spend are skipped so a sparse history
	// does not dilute the mean; with no history the rule never fires.
	day := asOf.Truncate(24 * time.Hour)
	var total int64
	var counted int64
	for i := 1; i <= baselineWindows; i++ {
		end := day.AddDate(0, 0, -i*r.WindowDays)
		w := core.LastDays(end, r.WindowDays)
		spend, err := e.windowSpend(ctx, r, w)
		if err != nil {
			return Evaluation{}, fmt.Errorf("baseline window spend: %w", err)
		}
		if !spend.IsZero() {
			total += spend.Cents
			counted++
		}
	}
	if counted == 0 {
		return Evaluation{}, nil
	}

	// fired iff current > (num/den) * mean, in exact integer arithmetic:
	// current * den * counted > total * num
	if current.Cents*anomalyDen*counted <= total*anomalyNum {
		return Evaluation{}, nil
	}
	mean := core.FromCents(total / counted)
	return Evaluation{
		Fired: true,
		Message: fmt.Sprintf("%s: spend %s over the last %d days is atypical (baseline %s)",
			r.Name, current, r.WindowDays, mean),
	}, nil
}

// windowSpend is the outflow the anomaly baseline is built from: one
// category's subtotal when the rule names a category, total outflow
// otherwise.
func (e *Engine) windowSpend(ctx context.Context, r *core.AlertRule, w core.DateRange) (core.Money, error) {
	if r.CategoryID != 0 {
		return e.ledger.SubtotalByCategory(ctx, r.OwnerID, r.CategoryID, w)
	}
	return e.ledger.TotalOutflow(ctx, r.OwnerID, w)
}

func (e *Engine) evaluateMinimumBalance(ctx context.Context, r *core.AlertRule, asOf time.Time) (Evaluation, error) {
	balance, err := e.ledger.AccountBalance(ctx, r.OwnerID, r.AccountID, asOf)
	if err != nil {
		return Evaluation{}, fmt.Errorf("account balance: %w", err)
	}
	if balance.Cmp(*r.Threshold) >= 0 {
		return Evaluation{}, nil
	}
	return Evaluation{
		Fired: true,
		Message: fmt.Sprintf("%s: account balance %s is below minimum %s",
			r.Name, balance, *r.Threshold),
	}, nil
}
