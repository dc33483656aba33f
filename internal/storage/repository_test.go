package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inout/internal/core"
	"inout/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "inout.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestEnsureProfileIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.EnsureProfile(ctx, "u1", "jane.doe@x.com")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.FullName != "Jane Doe" || p.Role != core.RoleEmployee {
		t.Fatalf("unexpected profile: %+v", p)
	}

	again, err := repo.EnsureProfile(ctx, "u1", "other@x.com")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.Email != "jane.doe@x.com" {
		t.Fatalf("profile should be stable, got %+v", again)
	}

	if err := repo.SetRole(ctx, "u1", core.RoleManager); err != nil {
		t.Fatalf("set role: %v", err)
	}
	p, _ = repo.GetProfile(ctx, "u1")
	if p.Role != core.RoleManager {
		t.Fatalf("expected manager, got %s", p.Role)
	}
	if err := repo.SetRole(ctx, "missing", core.RoleManager); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDepositRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	id, err := repo.CreateDeposit(ctx, core.Deposit{
		OwnerID:       "u1",
		Amount:        core.ParseAmount("12.5"),
		CreatedAt:     at,
		ClientAccount: "ACC-1",
		ClientName:    "Rossi",
		Note:          "first",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetDeposit(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("amount mismatch: %s", got.Amount)
	}
	if !got.CreatedAt.Equal(at) {
		t.Fatalf("created_at mismatch: %s", got.CreatedAt)
	}

	got.Amount = decimal.NewFromInt(20)
	got.OwnerID = "intruder"
	if err := repo.UpdateDeposit(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := repo.GetDeposit(ctx, id)
	if updated.OwnerID != "u1" {
		t.Fatal("owner must be immutable")
	}
	if !updated.Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("amount not updated: %s", updated.Amount)
	}

	if _, err := repo.GetDeposit(ctx, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListDepositsScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mk := func(owner string, at time.Time) {
		t.Helper()
		if _, err := repo.CreateDeposit(ctx, core.Deposit{OwnerID: owner, Amount: decimal.NewFromInt(1), CreatedAt: at}); err != nil {
			t.Fatal(err)
		}
	}
	mk("u1", base)
	mk("u1", base.AddDate(0, -1, 0))
	mk("u2", base)

	scoped, err := repo.ListDeposits(ctx, ledger.Scope{OwnerID: "u1", Period: core.Period{Year: 2024, Month: 6}})
	if err != nil || len(scoped) != 1 {
		t.Fatalf("expected 1 scoped deposit, got %d (err=%v)", len(scoped), err)
	}

	all, err := repo.ListDeposits(ctx, ledger.Scope{Period: core.AllTime()})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 deposits, got %d (err=%v)", len(all), err)
	}
}

func TestWithdrawalStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateWithdrawal(ctx, core.Withdrawal{OwnerID: "u1", Amount: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, _ := repo.GetWithdrawal(ctx, id)
	if w.Status != core.StatusPending {
		t.Fatalf("expected pending, got %s", w.Status)
	}

	if err := repo.SetWithdrawalStatus(ctx, id, core.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	w, _ = repo.GetWithdrawal(ctx, id)
	if w.Status != core.StatusApproved {
		t.Fatalf("expected approved, got %s", w.Status)
	}

	// A metadata update must not touch the status.
	w.Note = "urgent"
	if err := repo.UpdateWithdrawal(ctx, w); err != nil {
		t.Fatalf("update: %v", err)
	}
	w, _ = repo.GetWithdrawal(ctx, id)
	if w.Status != core.StatusApproved || w.Note != "urgent" {
		t.Fatalf("unexpected withdrawal after update: %+v", w)
	}

	if err := repo.SetWithdrawalStatus(ctx, id, "done"); !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestRollupsReplaceMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.EmployeeTotals{
		{OwnerID: "u1", In: decimal.NewFromInt(10), Out: decimal.NewFromInt(3), Net: decimal.NewFromInt(7)},
		{OwnerID: "u2", In: decimal.NewFromInt(5), Out: decimal.Zero, Net: decimal.NewFromInt(5)},
	}
	if err := repo.UpsertRollups(ctx, 2024, 6, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := []core.EmployeeTotals{
		{OwnerID: "u1", In: decimal.NewFromInt(11), Out: decimal.NewFromInt(3), Net: decimal.NewFromInt(8)},
	}
	if err := repo.UpsertRollups(ctx, 2024, 6, second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := repo.ListRollups(ctx, 2024, 6)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].OwnerID != "u1" || !got[0].Net.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unexpected rollups: %+v", got)
	}
}

func TestRecurringDeposits(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	id, err := repo.CreateRecurringDeposit(ctx, core.RecurringDeposit{
		OwnerID:    "u1",
		Amount:     decimal.NewFromInt(100),
		Recurrence: core.RecurMonthly,
		StartDate:  start,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	templates, err := repo.ListRecurringDeposits(ctx)
	if err != nil || len(templates) != 1 {
		t.Fatalf("expected 1 template, got %d (err=%v)", len(templates), err)
	}
	if !templates[0].LastRunAt.IsZero() {
		t.Fatalf("expected zero last run, got %s", templates[0].LastRunAt)
	}

	ranAt := start.AddDate(0, 1, 0)
	if err := repo.MarkRecurringRun(ctx, id, ranAt); err != nil {
		t.Fatalf("mark run: %v", err)
	}
	templates, _ = repo.ListRecurringDeposits(ctx)
	if !templates[0].LastRunAt.Equal(ranAt) {
		t.Fatalf("expected last run %s, got %s", ranAt, templates[0].LastRunAt)
	}

	if _, err := repo.CreateRecurringDeposit(ctx, core.RecurringDeposit{OwnerID: "u1", Amount: decimal.NewFromInt(1)}); !errors.Is(err, core.ErrInvalidRecurrence) {
		t.Fatalf("expected invalid recurrence, got %v", err)
	}

	if err := repo.DeleteRecurringDeposit(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	templates, _ = repo.ListRecurringDeposits(ctx)
	if len(templates) != 0 {
		t.Fatalf("expected no templates after delete, got %d", len(templates))
	}
	if err := repo.DeleteRecurringDeposit(ctx, id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
