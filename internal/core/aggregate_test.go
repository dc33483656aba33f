package core

import (
	"reflect"
	"testing"
	"time"
)

func mkDeposit(owner, amount string, at time.Time) Deposit {
	return Deposit{OwnerID: owner, Amount: dec(amount), CreatedAt: at}
}

func mkWithdrawal(owner, amount string, status Status, at time.Time) Withdrawal {
	return Withdrawal{OwnerID: owner, Amount: dec(amount), Status: status, CreatedAt: at}
}

var june = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestComputeSelfTotals(t *testing.T) {
	p := Period{Year: 2024, Month: 6}
	deposits := []Deposit{
		mkDeposit("u1", "100", june),
		mkDeposit("u1", "50", june.AddDate(0, -1, 0)), // previous month
		mkDeposit("u2", "999", june),
	}
	withdrawals := []Withdrawal{
		mkWithdrawal("u1", "30", StatusApproved, june),
		mkWithdrawal("u1", "20", StatusPending, june),
		mkWithdrawal("u1", "10", StatusRejected, june),
		mkWithdrawal("u2", "5", StatusApproved, june),
	}

	got := ComputeSelfTotals(deposits, withdrawals, "u1", p)
	if !got.In.Equal(dec("100")) {
		t.Fatalf("in total: expected 100, got %s", got.In)
	}
	if !got.OutApproved.Equal(dec("30")) {
		t.Fatalf("approved out: expected 30, got %s", got.OutApproved)
	}
}

func TestPerEmployeeTotalsDefaultsMissingSide(t *testing.T) {
	deposits := []Deposit{
		mkDeposit("u1", "10", june),
		mkDeposit("u1", "20", june),
		mkDeposit("u1", "30", june),
	}
	withdrawals := []Withdrawal{
		mkWithdrawal("u2", "7", StatusApproved, june),
	}

	entries := ComputePerEmployeeTotals(deposits, withdrawals, TotalsOptions{Period: AllTime()})
	if len(entries) != 2 {
		t.Fatalf("expected entries for both owners, got %d", len(entries))
	}

	u1, ok := FindTotals(entries, "u1")
	if !ok || !u1.In.Equal(dec("60")) || !u1.Out.IsZero() || !u1.Net.Equal(dec("60")) {
		t.Fatalf("u1 totals wrong: %+v", u1)
	}
	u2, ok := FindTotals(entries, "u2")
	if !ok || !u2.In.IsZero() || !u2.Out.Equal(dec("7")) || !u2.Net.Equal(dec("-7")) {
		t.Fatalf("u2 totals wrong: %+v", u2)
	}
}

func TestPerEmployeeTotalsIncludePending(t *testing.T) {
	withdrawals := []Withdrawal{
		mkWithdrawal("u1", "10", StatusApproved, june),
		mkWithdrawal("u1", "5", StatusPending, june),
		mkWithdrawal("u1", "99", StatusRejected, june),
	}

	strict := ComputePerEmployeeTotals(nil, withdrawals, TotalsOptions{Period: AllTime()})
	if e, _ := FindTotals(strict, "u1"); !e.Out.Equal(dec("10")) {
		t.Fatalf("approved only: expected 10, got %s", e.Out)
	}

	loose := ComputePerEmployeeTotals(nil, withdrawals, TotalsOptions{IncludePending: true, Period: AllTime()})
	if e, _ := FindTotals(loose, "u1"); !e.Out.Equal(dec("15")) {
		t.Fatalf("with pending: expected 15, got %s", e.Out)
	}
}

func TestPerEmployeeTotalsOrdering(t *testing.T) {
	deposits := []Deposit{
		mkDeposit("low", "1", june),
		mkDeposit("high", "100", june),
		mkDeposit("mid", "50", june),
	}
	entries := ComputePerEmployeeTotals(deposits, nil, TotalsOptions{Period: AllTime()})
	order := []string{entries[0].OwnerID, entries[1].OwnerID, entries[2].OwnerID}
	if !reflect.DeepEqual(order, []string{"high", "mid", "low"}) {
		t.Fatalf("expected descending net order, got %v", order)
	}
}

func TestSelfTotalsMatchPerEmployeeEntry(t *testing.T) {
	p := Period{Year: 2024, Month: 6}
	deposits := []Deposit{
		mkDeposit("u1", "40", june),
		mkDeposit("u2", "10", june),
	}
	withdrawals := []Withdrawal{
		mkWithdrawal("u1", "12.5", StatusApproved, june),
		mkWithdrawal("u1", "3", StatusPending, june),
	}

	self := ComputeSelfTotals(deposits, withdrawals, "u1", p)
	entries := ComputePerEmployeeTotals(deposits, withdrawals, TotalsOptions{Period: p})
	team, ok := FindTotals(entries, "u1")
	if !ok {
		t.Fatal("missing team entry for u1")
	}
	if !self.In.Equal(team.In) || !self.OutApproved.Equal(team.Out) {
		t.Fatalf("self %+v disagrees with team entry %+v", self, team)
	}
}

func TestPerEmployeeTotalsIdempotent(t *testing.T) {
	deposits := []Deposit{mkDeposit("u1", "1.001", june), mkDeposit("u2", "2", june)}
	withdrawals := []Withdrawal{mkWithdrawal("u1", "0.5", StatusApproved, june)}
	opts := TotalsOptions{Period: AllTime()}

	a := ComputePerEmployeeTotals(deposits, withdrawals, opts)
	b := ComputePerEmployeeTotals(deposits, withdrawals, opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated aggregation differs:\n%+v\n%+v", a, b)
	}
}
