// Package ledger defines the ports the HTTP layer and workers consume.
// Implementations live in internal/storage (SQLite), internal/ledger/memory
// (in-process) and internal/adapters (SQLite plus event publishing).
package ledger

import (
	"context"
	"errors"

	"inout/internal/core"
)

// ErrNotFound is returned when a record id resolves to nothing.
var ErrNotFound = errors.New("record not found")

// Scope restricts reads. An empty OwnerID means all owners (manager view);
// the period defaults to all-time when unset.
type Scope struct {
	OwnerID string
	Period  core.Period
}

type (
	DepositWriter interface {
		// CreateDeposit persists a new deposit and returns its id.
		CreateDeposit(ctx context.Context, d core.Deposit) (string, error)
		// UpdateDeposit replaces amount and metadata. The owner is immutable.
		UpdateDeposit(ctx context.Context, d core.Deposit) error
	}

	WithdrawalWriter interface {
		CreateWithdrawal(ctx context.Context, w core.Withdrawal) (string, error)
		UpdateWithdrawal(ctx context.Context, w core.Withdrawal) error
		// SetWithdrawalStatus moves a request among pending/approved/rejected.
		SetWithdrawalStatus(ctx context.Context, id string, status core.Status) error
	}

	// Reader provides the raw record snapshots the aggregation core runs on.
	Reader interface {
		GetDeposit(ctx context.Context, id string) (core.Deposit, error)
		GetWithdrawal(ctx context.Context, id string) (core.Withdrawal, error)
		ListDeposits(ctx context.Context, s Scope) ([]core.Deposit, error)
		ListWithdrawals(ctx context.Context, s Scope) ([]core.Withdrawal, error)
	}

	// RecurringStore manages the templates cmd/inout-recurring materializes
	// into deposits.
	RecurringStore interface {
		CreateRecurringDeposit(ctx context.Context, t core.RecurringDeposit) (string, error)
		ListRecurringDeposits(ctx context.Context) ([]core.RecurringDeposit, error)
		DeleteRecurringDeposit(ctx context.Context, id string) error
	}

	ProfileStore interface {
		// EnsureProfile returns the profile for userID, creating it with a
		// name seeded from the email local part on first sight.
		EnsureProfile(ctx context.Context, userID, email string) (core.Profile, error)
		GetProfile(ctx context.Context, userID string) (core.Profile, error)
		ListProfiles(ctx context.Context) ([]core.Profile, error)
		SetRole(ctx context.Context, userID string, role core.Role) error
	}
)

// Backend is the full surface the HTTP server needs.
type Backend interface {
	DepositWriter
	WithdrawalWriter
	Reader
	RecurringStore
	ProfileStore
}
