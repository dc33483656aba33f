package core

import (
	"reflect"
	"testing"
)

func TestExportRows(t *testing.T) {
	profiles := BuildProfileIndex([]Profile{
		{UserID: "u1", FullName: "Alice Smith", Email: "alice@x.com"},
	})
	deposits := []Deposit{mkDeposit("u1", "100", june)}
	withdrawals := []Withdrawal{mkWithdrawal("u1", "25", StatusApproved, june)}

	rows := ExportRows(deposits, withdrawals, profiles, TotalsOptions{Period: AllTime()})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []string{"Alice Smith", "alice@x.com", "100.000", "25.000", "75.000"}
	if got := rows[0].Record(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(ExportHeader) != len(want) {
		t.Fatalf("header/record arity mismatch")
	}
}
