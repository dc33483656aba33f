package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringDeposit is a template that materializes real deposits on a
// monthly or yearly cadence. LastRunAt is zero until the first run.
type RecurringDeposit struct {
	ID            string
	OwnerID       string
	Amount        decimal.Decimal
	ClientAccount string
	ClientName    string
	Note          string
	Recurrence    Recurrence
	StartDate     time.Time
	LastRunAt     time.Time
}

func (r RecurringDeposit) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.Recurrence != RecurMonthly && r.Recurrence != RecurYearly {
		return ErrInvalidRecurrence
	}
	return nil
}

// Materialize builds the deposit a due template produces at time t.
func (r RecurringDeposit) Materialize(t time.Time) Deposit {
	return Deposit{
		OwnerID:       r.OwnerID,
		Amount:        r.Amount,
		CreatedAt:     t.UTC(),
		ClientAccount: r.ClientAccount,
		ClientName:    r.ClientName,
		Recurrence:    r.Recurrence,
		Note:          r.Note,
	}
}
