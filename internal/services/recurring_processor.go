package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inout/internal/storage"
)

// RecurringProcessor materializes deposits from due recurring templates.
type RecurringProcessor struct {
	storage *storage.SQLiteRepository
	ledger  *LedgerService
}

func NewRecurringProcessor(storage *storage.SQLiteRepository, ledger *LedgerService) *RecurringProcessor {
	return &RecurringProcessor{
		storage: storage,
		ledger:  ledger,
	}
}

// ProcessDue runs every template that is due at now and returns how many
// deposits were created. One bad template never stops the batch.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.storage.ListRecurringDeposits(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring deposits: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring deposits",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, t := range templates {
		checker, err := GetDuenessChecker(t.Recurrence)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping template with unknown recurrence",
				"id", t.ID, "recurrence", t.Recurrence)
			continue
		}

		if !checker.IsDue(t.LastRunAt, now, t.StartDate) {
			continue
		}

		depositID, err := p.ledger.CreateDeposit(ctx, t.Materialize(now))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create deposit from template",
				"template_id", t.ID, "error", err)
			continue
		}

		if err := p.storage.MarkRecurringRun(ctx, t.ID, now); err != nil {
			// Deposit exists; the template will look due again next tick.
			slog.ErrorContext(ctx, "Failed to mark template run",
				"template_id", t.ID, "error", err)
		}

		processed++
		slog.InfoContext(ctx, "Created deposit from recurring template",
			"template_id", t.ID,
			"deposit_id", depositID,
			"amount", t.Amount.String(),
			"recurrence", t.Recurrence)
	}

	slog.InfoContext(ctx, "Recurring deposit processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}
