package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const (
	RecurNone    Recurrence = ""
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

type (
	Role       string
	Status     string
	Recurrence string

	// Deposit is an IN record: cash recorded by an employee for themself.
	Deposit struct {
		ID            string
		OwnerID       string
		Amount        decimal.Decimal
		CreatedAt     time.Time
		ClientAccount string
		ClientName    string
		Recurrence    Recurrence
		Note          string
	}

	// Withdrawal is an OUT record: an employee request subject to manager
	// approval. Status moves freely among pending/approved/rejected.
	Withdrawal struct {
		ID            string
		OwnerID       string
		Amount        decimal.Decimal
		CreatedAt     time.Time
		ClientAccount string
		ClientName    string
		Note          string
		Status        Status
		UpdatedAt     time.Time
	}

	Profile struct {
		UserID   string
		FullName string
		Email    string
		Role     Role
	}
)

var (
	ErrEmptyOwner        = errors.New("empty owner id")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus normalizes a status string. Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurNone, RecurMonthly, RecurYearly:
		return true
	default:
		return false
	}
}

func (d Deposit) Validate() error {
	if strings.TrimSpace(d.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if d.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !d.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	return nil
}

func (w Withdrawal) Validate() error {
	if strings.TrimSpace(w.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if w.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !w.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Record is the common shape the aggregation operations work over.
type Record interface {
	Owner() string
	Value() decimal.Decimal
}

func (d Deposit) Owner() string          { return d.OwnerID }
func (d Deposit) Value() decimal.Decimal { return d.Amount }

func (w Withdrawal) Owner() string          { return w.OwnerID }
func (w Withdrawal) Value() decimal.Decimal { return w.Amount }

// FilterByOwner keeps records whose owner matches ownerID exactly.
func FilterByOwner[T Record](records []T, ownerID string) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.Owner() == ownerID {
			out = append(out, r)
		}
	}
	return out
}

// SumAmounts totals the record amounts. An empty input sums to exactly zero.
func SumAmounts[T Record](records []T) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Value())
	}
	return total
}
