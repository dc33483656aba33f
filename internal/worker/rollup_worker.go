// Package worker recomputes monthly per-employee rollups in response to
// ledger events and on a safety-net interval.
package worker

import (
	"context"
	"fmt"
	"time"

	"inout/internal/amqp"
	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
	"inout/internal/report"
)

// Store is the slice of the repository the rollup worker needs.
type Store interface {
	ListDeposits(ctx context.Context, scope ledger.Scope) ([]core.Deposit, error)
	ListWithdrawals(ctx context.Context, scope ledger.Scope) ([]core.Withdrawal, error)
	ListProfiles(ctx context.Context) ([]core.Profile, error)
	UpsertRollups(ctx context.Context, year, month int, entries []core.EmployeeTotals) error
}

type RollupWorker struct {
	store          Store
	report         report.Appender // nil disables report appends
	includePending bool
	logger         *log.Logger
}

func NewRollupWorker(store Store, appender report.Appender, includePending bool) *RollupWorker {
	return &RollupWorker{
		store:          store,
		report:         appender,
		includePending: includePending,
		logger:         log.New(log.DefaultConfig()).WithComponent(log.ComponentRollup),
	}
}

// HandleEvent recomputes the month an event points at. Events without a
// month, like profile changes, recompute the current month so display
// names in the report stay fresh.
func (w *RollupWorker) HandleEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	year, month := event.Year, event.Month
	if year == 0 || month == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), int(now.Month())
	}

	w.logger.InfoContext(ctx, "Handling ledger event",
		log.FieldCollection, event.Collection,
		log.FieldRecordID, event.ID,
		log.FieldYear, year,
		log.FieldMonth, month)

	return w.RecomputeMonth(ctx, year, month)
}

// RecomputeMonth rebuilds the stored rollup for one month from the ledger
// and, when configured, appends the result to the external report.
func (w *RollupWorker) RecomputeMonth(ctx context.Context, year, month int) error {
	period := core.Period{Year: year, Month: month}
	scope := ledger.Scope{Period: period}

	deposits, err := w.store.ListDeposits(ctx, scope)
	if err != nil {
		return fmt.Errorf("list deposits: %w", err)
	}
	withdrawals, err := w.store.ListWithdrawals(ctx, scope)
	if err != nil {
		return fmt.Errorf("list withdrawals: %w", err)
	}

	opts := core.TotalsOptions{IncludePending: w.includePending, Period: period}
	entries := core.ComputePerEmployeeTotals(deposits, withdrawals, opts)

	if err := w.store.UpsertRollups(ctx, year, month, entries); err != nil {
		return fmt.Errorf("upsert rollups: %w", err)
	}

	w.logger.InfoContext(ctx, "Recomputed monthly rollup",
		log.FieldYear, year,
		log.FieldMonth, month,
		"employees", len(entries))

	if w.report == nil {
		return nil
	}

	profiles, err := w.store.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	rows := core.ExportRows(deposits, withdrawals, core.BuildProfileIndex(profiles), opts)
	if err := w.report.AppendMonthlyReport(ctx, year, month, rows); err != nil {
		// Rollup is already stored; the report is best effort.
		w.logger.ErrorContext(ctx, "Failed to append monthly report",
			log.FieldYear, year,
			log.FieldMonth, month,
			log.FieldError, err)
	}
	return nil
}

// RunInterval recomputes the current month on every tick until the context
// ends. It backstops lost events.
func (w *RollupWorker) RunInterval(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now().UTC()
			if err := w.RecomputeMonth(ctx, now.Year(), int(now.Month())); err != nil {
				w.logger.ErrorContext(ctx, "Interval rollup failed", log.FieldError, err)
			}
		}
	}
}
