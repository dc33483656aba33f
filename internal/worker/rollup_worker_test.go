package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inout/internal/amqp"
	"inout/internal/core"
	"inout/internal/ledger"
	reportmem "inout/internal/report/memory"
)

type fakeStore struct {
	deposits    []core.Deposit
	withdrawals []core.Withdrawal
	profiles    []core.Profile

	rollups map[string][]core.EmployeeTotals
}

func newFakeStore() *fakeStore {
	return &fakeStore{rollups: make(map[string][]core.EmployeeTotals)}
}

func (f *fakeStore) ListDeposits(_ context.Context, scope ledger.Scope) ([]core.Deposit, error) {
	var out []core.Deposit
	for _, d := range f.deposits {
		if scope.Period.All || scope.Period.Contains(d.CreatedAt) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListWithdrawals(_ context.Context, scope ledger.Scope) ([]core.Withdrawal, error) {
	var out []core.Withdrawal
	for _, w := range f.withdrawals {
		if scope.Period.All || scope.Period.Contains(w.CreatedAt) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListProfiles(_ context.Context) ([]core.Profile, error) {
	return f.profiles, nil
}

func (f *fakeStore) UpsertRollups(_ context.Context, year, month int, entries []core.EmployeeTotals) error {
	f.rollups[rollupKey(year, month)] = entries
	return nil
}

func rollupKey(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func TestHandleEventRecomputesEventMonth(t *testing.T) {
	store := newFakeStore()
	june := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	store.deposits = []core.Deposit{
		{ID: "d1", OwnerID: "u1", Amount: decimal.NewFromInt(100), CreatedAt: june},
		{ID: "d2", OwnerID: "u1", Amount: decimal.NewFromInt(50), CreatedAt: june.AddDate(0, 1, 0)},
	}
	store.withdrawals = []core.Withdrawal{
		{ID: "w1", OwnerID: "u1", Amount: decimal.NewFromInt(30), CreatedAt: june, Status: core.StatusApproved},
		{ID: "w2", OwnerID: "u1", Amount: decimal.NewFromInt(10), CreatedAt: june, Status: core.StatusPending},
	}

	w := NewRollupWorker(store, nil, false)
	event := amqp.NewLedgerEvent(amqp.CollectionDeposits, "d1", "u1", june)

	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries, ok := store.rollups[rollupKey(2024, 6)]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected june rollup with 1 entry, got %+v", store.rollups)
	}
	// July's deposit and the pending withdrawal stay out of June's totals.
	if !entries[0].In.Equal(decimal.NewFromInt(100)) || !entries[0].Out.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].Net.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected net: %s", entries[0].Net)
	}
}

func TestIncludePendingWidensOut(t *testing.T) {
	store := newFakeStore()
	june := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	store.withdrawals = []core.Withdrawal{
		{ID: "w1", OwnerID: "u1", Amount: decimal.NewFromInt(30), CreatedAt: june, Status: core.StatusApproved},
		{ID: "w2", OwnerID: "u1", Amount: decimal.NewFromInt(10), CreatedAt: june, Status: core.StatusPending},
		{ID: "w3", OwnerID: "u1", Amount: decimal.NewFromInt(99), CreatedAt: june, Status: core.StatusRejected},
	}

	w := NewRollupWorker(store, nil, true)
	if err := w.RecomputeMonth(context.Background(), 2024, 6); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	entries := store.rollups[rollupKey(2024, 6)]
	if len(entries) != 1 || !entries[0].Out.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected out 40 with pending included, got %+v", entries)
	}
}

func TestRecomputeAppendsReport(t *testing.T) {
	store := newFakeStore()
	june := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	store.deposits = []core.Deposit{
		{ID: "d1", OwnerID: "u1", Amount: decimal.NewFromInt(100), CreatedAt: june},
	}
	store.profiles = []core.Profile{
		{UserID: "u1", FullName: "Jane Doe", Email: "jane@x.com", Role: core.RoleEmployee},
	}
	sink := reportmem.New()

	w := NewRollupWorker(store, sink, false)
	if err := w.RecomputeMonth(context.Background(), 2024, 6); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	appends := sink.Appends()
	if len(appends) != 1 || appends[0].Year != 2024 || appends[0].Month != 6 {
		t.Fatalf("expected one june append, got %+v", appends)
	}
	if len(appends[0].Rows) != 1 || appends[0].Rows[0].Name != "Jane Doe" {
		t.Fatalf("unexpected rows: %+v", appends[0].Rows)
	}
}

func TestProfileEventFallsBackToCurrentMonth(t *testing.T) {
	store := newFakeStore()
	w := NewRollupWorker(store, nil, false)

	event := &amqp.LedgerEvent{Collection: amqp.CollectionProfiles, ID: "u1", OwnerID: "u1"}
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	now := time.Now().UTC()
	if _, ok := store.rollups[rollupKey(now.Year(), int(now.Month()))]; !ok {
		t.Fatalf("expected current month rollup, got %+v", store.rollups)
	}
}
