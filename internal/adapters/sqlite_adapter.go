// Package adapters wires the SQLite repository and the ledger service into
// the ledger.Backend port the HTTP handlers consume.
package adapters

import (
	"context"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/services"
	"inout/internal/storage"
)

// SQLiteAdapter routes writes through the ledger service, so every mutation
// publishes a change event, and reads straight to the repository.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.LedgerService
}

var _ ledger.Backend = (*SQLiteAdapter)(nil)

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.LedgerService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

func (a *SQLiteAdapter) CreateDeposit(ctx context.Context, d core.Deposit) (string, error) {
	return a.service.CreateDeposit(ctx, d)
}

func (a *SQLiteAdapter) UpdateDeposit(ctx context.Context, d core.Deposit) error {
	return a.service.UpdateDeposit(ctx, d)
}

func (a *SQLiteAdapter) CreateWithdrawal(ctx context.Context, w core.Withdrawal) (string, error) {
	return a.service.CreateWithdrawal(ctx, w)
}

func (a *SQLiteAdapter) UpdateWithdrawal(ctx context.Context, w core.Withdrawal) error {
	return a.service.UpdateWithdrawal(ctx, w)
}

func (a *SQLiteAdapter) SetWithdrawalStatus(ctx context.Context, id string, status core.Status) error {
	return a.service.SetWithdrawalStatus(ctx, id, status)
}

func (a *SQLiteAdapter) GetDeposit(ctx context.Context, id string) (core.Deposit, error) {
	return a.storage.GetDeposit(ctx, id)
}

func (a *SQLiteAdapter) GetWithdrawal(ctx context.Context, id string) (core.Withdrawal, error) {
	return a.storage.GetWithdrawal(ctx, id)
}

func (a *SQLiteAdapter) ListDeposits(ctx context.Context, scope ledger.Scope) ([]core.Deposit, error) {
	return a.storage.ListDeposits(ctx, scope)
}

func (a *SQLiteAdapter) ListWithdrawals(ctx context.Context, scope ledger.Scope) ([]core.Withdrawal, error) {
	return a.storage.ListWithdrawals(ctx, scope)
}

// Recurring templates are plain storage rows; materialized deposits publish
// events when the recurring worker creates them, so template writes don't.
func (a *SQLiteAdapter) CreateRecurringDeposit(ctx context.Context, t core.RecurringDeposit) (string, error) {
	return a.storage.CreateRecurringDeposit(ctx, t)
}

func (a *SQLiteAdapter) ListRecurringDeposits(ctx context.Context) ([]core.RecurringDeposit, error) {
	return a.storage.ListRecurringDeposits(ctx)
}

func (a *SQLiteAdapter) DeleteRecurringDeposit(ctx context.Context, id string) error {
	return a.storage.DeleteRecurringDeposit(ctx, id)
}

func (a *SQLiteAdapter) EnsureProfile(ctx context.Context, userID, email string) (core.Profile, error) {
	return a.storage.EnsureProfile(ctx, userID, email)
}

func (a *SQLiteAdapter) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	return a.storage.GetProfile(ctx, userID)
}

func (a *SQLiteAdapter) ListProfiles(ctx context.Context) ([]core.Profile, error) {
	return a.storage.ListProfiles(ctx)
}

func (a *SQLiteAdapter) SetRole(ctx context.Context, userID string, role core.Role) error {
	return a.service.SetRole(ctx, userID, role)
}
