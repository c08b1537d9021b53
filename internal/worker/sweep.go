package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"finledger/internal/alerts"
	"finledger/internal/amqp"
	"finledger/internal/core"
)

// RuleSource lists the rules a sweep evaluates.
type RuleSource interface {
	ListActive(ctx context.Context) ([]*core.AlertRule, error)
}

// Evaluator evaluates a single rule at an instant.
type Evaluator interface {
	Evaluate(ctx context.Context, r *core.AlertRule, asOf time.Time) (alerts.Evaluation, error)
}

// Publisher delivers fired-alert messages to the notification queue.
type Publisher interface {
	PublishAlertFired(ctx context.Context, msg *amqp.AlertFiredMessage) error
}

// Sweeper evaluates every active alert rule and publishes the ones that
// fire. One rule failing never aborts the sweep: evaluation errors are
// logged per rule and the sweep carries on.
type Sweeper struct {
	rules       RuleSource
	engine      Evaluator
	publisher   Publisher
	throttle    *Throttle
	concurrency int
}

func NewSweeper(rules RuleSource, engine Evaluator, publisher Publisher, throttle *Throttle, concurrency int) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		rules:       rules,
		engine:      engine,
		publisher:   publisher,
		throttle:    throttle,
		concurrency: concurrency,
	}
}

// SweepStats is one sweep's tally.
type SweepStats struct {
	Evaluated int
	Fired     int
	Failed    int
}

// Sweep evaluates all active rules as of the given instant. It returns an
// error only when the rule listing itself fails or the context is
// cancelled; per-rule failures are logged, tallied in the returned stats
// and in the completion log, never returned as the sweep's error.
func (s *Sweeper) Sweep(ctx context.Context, asOf time.Time) (SweepStats, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return SweepStats{}, fmt.Errorf("list active rules: %w", err)
	}

	slog.InfoContext(ctx, "Starting alert sweep",
		"rules", len(rules),
		"as_of", asOf.Format(time.RFC3339))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var fired, failed atomic.Int64
	for _, rule := range rules {
		rule := rule
		g.Go(func() error {
			switch s.evaluateRule(gctx, rule, asOf) {
			case outcomeFired:
				fired.Add(1)
			case outcomeFailed:
				failed.Add(1)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return SweepStats{}, err
	}

	stats := SweepStats{
		Evaluated: len(rules),
		Fired:     int(fired.Load()),
		Failed:    int(failed.Load()),
	}
	slog.InfoContext(ctx, "Alert sweep complete",
		"rules", stats.Evaluated,
		"fired", stats.Fired,
		"failed", stats.Failed)
	return stats, nil
}

type outcome int

const (
	outcomeQuiet outcome = iota
	outcomeFired
	outcomeFailed
)

func (s *Sweeper) evaluateRule(ctx context.Context, rule *core.AlertRule, asOf time.Time) outcome {
	eval, err := s.engine.Evaluate(ctx, rule, asOf)
	if err != nil {
		if core.IsValidation(err) {
			// A stored rule that no longer validates (e.g. its category was
			// deleted out from under it) is skipped, not retried forever.
			slog.WarnContext(ctx, "Skipping invalid rule",
				"rule_id", rule.ID,
				"owner_id", rule.OwnerID,
				"error", err)
			return outcomeQuiet
		}
		slog.ErrorContext(ctx, "Rule evaluation failed",
			"rule_id", rule.ID,
			"owner_id", rule.OwnerID,
			"error", err)
		return outcomeFailed
	}

	if !eval.Fired {
		return outcomeQuiet
	}

	if !s.throttle.Allow(rule.ID) {
		slog.DebugContext(ctx, "Alert suppressed by cooldown",
			"rule_id", rule.ID)
		return outcomeQuiet
	}

	msg := amqp.NewAlertFiredMessage(rule, eval.Message, asOf)
	if err := s.publisher.PublishAlertFired(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish fired alert",
			"rule_id", rule.ID,
			"message_id", msg.MessageID,
			"error", err)
		return outcomeFailed
	}
	s.throttle.Mark(rule.ID)

	slog.InfoContext(ctx, "Alert fired",
		"rule_id", rule.ID,
		"owner_id", rule.OwnerID,
		"type", rule.Type,
		"message_id", msg.MessageID)
	return outcomeFired
}

// Run sweeps immediately and then on every interval tick until the
// context is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx, time.Now().UTC()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.ErrorContext(ctx, "Sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
