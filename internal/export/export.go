package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finledger/internal/core"
)

// SummaryRow is one exported line: one owner's totals for one calendar
// month.
type SummaryRow struct {
	OwnerID int64
	Email   string
	Year    int
	Month   time.Month
	Inflow  core.Money
	Outflow core.Money
	Balance core.Money
}

// SummaryWriter is the outbound port for exported rows.
type SummaryWriter interface {
	AppendSummary(ctx context.Context, row SummaryRow) (rowRef string, err error)
}

// UserLister enumerates the owners an export covers.
type UserLister interface {
	ListActive(ctx context.Context) ([]*core.User, error)
}

// Summarizer aggregates one owner's ledger over a range.
type Summarizer interface {
	Summary(ctx context.Context, ownerID int64, r core.DateRange) (core.Summary, error)
}

// Exporter writes per-owner monthly summaries through a SummaryWriter.
type Exporter struct {
	users  UserLister
	ledger Summarizer
	writer SummaryWriter
}

func NewExporter(users UserLister, ledger Summarizer, writer SummaryWriter) *Exporter {
	return &Exporter{users: users, ledger: ledger, writer: writer}
}

// ExportMonth exports one calendar month for every active owner and
// returns how many rows were written. The first failure aborts the
// export so a partial run is visible to the caller.
func (e *Exporter) ExportMonth(ctx context.Context, year int, month time.Month) (int, error) {
	users, err := e.users.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	window := core.MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))

	var written int
	for _, u := range users {
		summary, err := e.ledger.Summary(ctx, u.ID, window)
		if err != nil {
			return written, fmt.Errorf("summary for owner %d: %w", u.ID, err)
		}

		row := SummaryRow{
			OwnerID: u.ID,
			Email:   u.Email,
			Year:    year,
			Month:   month,
			Inflow:  summary.Inflow,
			Outflow: summary.Outflow,
			Balance: summary.Balance,
		}
		ref, err := e.writer.AppendSummary(ctx, row)
		if err != nil {
			return written, fmt.Errorf("append summary for owner %d: %w", u.ID, err)
		}
		written++

		slog.InfoContext(ctx, "Exported monthly summary",
			"owner_id", u.ID,
			"year", year,
			"month", int(month),
			"row_ref", ref)
	}
	return written, nil
}
