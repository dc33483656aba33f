// Package services orchestrates writes across SQLite and AMQP.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"inout/internal/amqp"
	"inout/internal/core"
	"inout/internal/storage"
)

// EventPublisher emits ledger change notifications. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
	Close() error
}

// LedgerService writes records to SQLite and publishes a change event per
// write. Publish failures are logged, never surfaced: the database is the
// source of truth and consumers recompute from it.
type LedgerService struct {
	storage *storage.SQLiteRepository
	events  EventPublisher
}

func NewLedgerService(storage *storage.SQLiteRepository, events EventPublisher) *LedgerService {
	return &LedgerService{
		storage: storage,
		events:  events,
	}
}

func (s *LedgerService) CreateDeposit(ctx context.Context, d core.Deposit) (string, error) {
	id, err := s.storage.CreateDeposit(ctx, d)
	if err != nil {
		return "", fmt.Errorf("save deposit: %w", err)
	}

	saved, err := s.storage.GetDeposit(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to re-read deposit for event", "id", id, "error", err)
		return id, nil
	}
	s.publish(ctx, amqp.NewLedgerEvent(amqp.CollectionDeposits, id, saved.OwnerID, saved.CreatedAt))
	return id, nil
}

func (s *LedgerService) UpdateDeposit(ctx context.Context, d core.Deposit) error {
	if err := s.storage.UpdateDeposit(ctx, d); err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	saved, err := s.storage.GetDeposit(ctx, d.ID)
	if err == nil {
		s.publish(ctx, amqp.NewLedgerEvent(amqp.CollectionDeposits, d.ID, saved.OwnerID, saved.CreatedAt))
	}
	return nil
}

func (s *LedgerService) CreateWithdrawal(ctx context.Context, w core.Withdrawal) (string, error) {
	id, err := s.storage.CreateWithdrawal(ctx, w)
	if err != nil {
		return "", fmt.Errorf("save withdrawal: %w", err)
	}
	saved, err := s.storage.GetWithdrawal(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to re-read withdrawal for event", "id", id, "error", err)
		return id, nil
	}
	s.publish(ctx, amqp.NewLedgerEvent(amqp.CollectionWithdrawals, id, saved.OwnerID, saved.CreatedAt))
	return id, nil
}

func (s *LedgerService) UpdateWithdrawal(ctx context.Context, w core.Withdrawal) error {
	if err := s.storage.UpdateWithdrawal(ctx, w); err != nil {
		return fmt.Errorf("update withdrawal: %w", err)
	}
	saved, err := s.storage.GetWithdrawal(ctx, w.ID)
	if err == nil {
		s.publish(ctx, amqp.NewLedgerEvent(amqp.CollectionWithdrawals, w.ID, saved.OwnerID, saved.CreatedAt))
	}
	return nil
}

func (s *LedgerService) SetWithdrawalStatus(ctx context.Context, id string, status core.Status) error {
	if err := s.storage.SetWithdrawalStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set withdrawal status: %w", err)
	}
	saved, err := s.storage.GetWithdrawal(ctx, id)
	if err == nil {
		// Totals are keyed by the record's month, not the decision's.
		s.publish(ctx, amqp.NewLedgerEvent(amqp.CollectionWithdrawals, id, saved.OwnerID, saved.CreatedAt))
	}
	return nil
}

func (s *LedgerService) SetRole(ctx context.Context, userID string, role core.Role) error {
	if err := s.storage.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.publish(ctx, &amqp.LedgerEvent{Collection: amqp.CollectionProfiles, ID: userID, OwnerID: userID})
	return nil
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.events == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event",
			"collection", event.Collection, "id", event.ID)
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"collection", event.Collection, "id", event.ID, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
