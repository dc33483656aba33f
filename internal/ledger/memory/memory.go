// Package memory is an in-process ledger backend used for development and
// handler tests. It mirrors the SQLite repository's semantics without I/O.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inout/internal/core"
	"inout/internal/ledger"
)

type Store struct {
	mu          sync.Mutex
	profiles    map[string]core.Profile
	deposits    []core.Deposit
	withdrawals []core.Withdrawal
	recurring   []core.RecurringDeposit
	now         func() time.Time
}

func New() *Store {
	return &Store{
		profiles: make(map[string]core.Profile),
		now:      time.Now,
	}
}

// SetClock overrides the store clock; tests use it for stable timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) EnsureProfile(_ context.Context, userID, email string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	p := core.Profile{
		UserID:   userID,
		FullName: seedName(email),
		Email:    email,
		Role:     core.RoleEmployee,
	}
	s.profiles[userID] = p
	return p, nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, ledger.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProfiles(_ context.Context) ([]core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) SetRole(_ context.Context, userID string, role core.Role) error {
	if !role.IsValid() {
		return core.ErrInvalidRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ledger.ErrNotFound
	}
	p.Role = role
	s.profiles[userID] = p
	return nil
}

func (s *Store) CreateDeposit(_ context.Context, d core.Deposit) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now().UTC()
	}
	s.deposits = append(s.deposits, d)
	return d.ID, nil
}

func (s *Store) UpdateDeposit(_ context.Context, d core.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.deposits {
		if existing.ID == d.ID {
			// Owner and creation time never change.
			d.OwnerID = existing.OwnerID
			d.CreatedAt = existing.CreatedAt
			if err := d.Validate(); err != nil {
				return err
			}
			s.deposits[i] = d
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) GetDeposit(_ context.Context, id string) (core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deposits {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Deposit{}, ledger.ErrNotFound
}

func (s *Store) CreateWithdrawal(_ context.Context, w core.Withdrawal) (string, error) {
	if w.Status == "" {
		w.Status = core.StatusPending
	}
	if err := w.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.now().UTC()
	}
	w.UpdatedAt = w.CreatedAt
	s.withdrawals = append(s.withdrawals, w)
	return w.ID, nil
}

func (s *Store) UpdateWithdrawal(_ context.Context, w core.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.withdrawals {
		if existing.ID == w.ID {
			w.OwnerID = existing.OwnerID
			w.CreatedAt = existing.CreatedAt
			w.Status = existing.Status // status changes go through SetWithdrawalStatus
			w.UpdatedAt = s.now().UTC()
			if err := w.Validate(); err != nil {
				return err
			}
			s.withdrawals[i] = w
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) SetWithdrawalStatus(_ context.Context, id string, status core.Status) error {
	if !status.IsValid() {
		return core.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.withdrawals {
		if s.withdrawals[i].ID == id {
			s.withdrawals[i].Status = status
			s.withdrawals[i].UpdatedAt = s.now().UTC()
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) GetWithdrawal(_ context.Context, id string) (core.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.withdrawals {
		if w.ID == id {
			return w, nil
		}
	}
	return core.Withdrawal{}, ledger.ErrNotFound
}

func (s *Store) ListDeposits(_ context.Context, scope ledger.Scope) ([]core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Deposit, 0, len(s.deposits))
	for _, d := range s.deposits {
		if scope.OwnerID != "" && d.OwnerID != scope.OwnerID {
			continue
		}
		if !inScope(scope.Period, d.CreatedAt) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) ListWithdrawals(_ context.Context, scope ledger.Scope) ([]core.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Withdrawal, 0, len(s.withdrawals))
	for _, w := range s.withdrawals {
		if scope.OwnerID != "" && w.OwnerID != scope.OwnerID {
			continue
		}
		if !inScope(scope.Period, w.CreatedAt) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) CreateRecurringDeposit(_ context.Context, t core.RecurringDeposit) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.StartDate.IsZero() {
		t.StartDate = s.now().UTC()
	}
	s.recurring = append(s.recurring, t)
	return t.ID, nil
}

func (s *Store) ListRecurringDeposits(_ context.Context) ([]core.RecurringDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringDeposit, len(s.recurring))
	copy(out, s.recurring)
	return out, nil
}

func (s *Store) DeleteRecurringDeposit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurring {
		if s.recurring[i].ID == id {
			s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func inScope(p core.Period, t time.Time) bool {
	if p == (core.Period{}) {
		return true
	}
	return p.Contains(t)
}

func seedName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, t := range tokens {
		if t != "" {
			tokens[i] = strings.ToUpper(t[:1]) + strings.ToLower(t[1:])
		}
	}
	return strings.Join(tokens, " ")
}
