package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SelfTotals is the viewer's own IN/OUT summary for a period.
type SelfTotals struct {
	In          decimal.Decimal
	OutApproved decimal.Decimal
}

// EmployeeTotals is one row of the manager's team view.
type EmployeeTotals struct {
	OwnerID string
	In      decimal.Decimal
	Out     decimal.Decimal
	Net     decimal.Decimal
}

// TotalsOptions controls per-employee aggregation.
type TotalsOptions struct {
	// IncludePending extends the OUT total to pending withdrawals.
	// Rejected withdrawals are never counted.
	IncludePending bool
	Period         Period
}

// ComputeSelfTotals sums the viewer's own deposits and approved withdrawals
// inside the period.
func ComputeSelfTotals(deposits []Deposit, withdrawals []Withdrawal, ownerID string, p Period) SelfTotals {
	in := SumAmounts(FilterByPeriod(FilterByOwner(deposits, ownerID), p))
	out := decimal.Zero
	for _, w := range FilterWithdrawalsByPeriod(FilterByOwner(withdrawals, ownerID), p) {
		if w.Status == StatusApproved {
			out = out.Add(w.Amount)
		}
	}
	return SelfTotals{In: in, OutApproved: out}
}

// ComputePerEmployeeTotals groups both record sets by owner and returns one
// entry per owner appearing in either input, with the missing side defaulted
// to zero. Output order is descending net; ties keep first-appearance order,
// so the result is deterministic for a given input order.
func ComputePerEmployeeTotals(deposits []Deposit, withdrawals []Withdrawal, opts TotalsOptions) []EmployeeTotals {
	deposits = FilterByPeriod(deposits, opts.Period)
	withdrawals = FilterWithdrawalsByPeriod(withdrawals, opts.Period)

	index := make(map[string]int)
	entries := make([]EmployeeTotals, 0)

	entry := func(owner string) *EmployeeTotals {
		if i, ok := index[owner]; ok {
			return &entries[i]
		}
		index[owner] = len(entries)
		entries = append(entries, EmployeeTotals{
			OwnerID: owner,
			In:      decimal.Zero,
			Out:     decimal.Zero,
			Net:     decimal.Zero,
		})
		return &entries[len(entries)-1]
	}

	for _, d := range deposits {
		e := entry(d.OwnerID)
		e.In = e.In.Add(d.Amount)
	}
	for _, w := range withdrawals {
		e := entry(w.OwnerID)
		switch w.Status {
		case StatusApproved:
			e.Out = e.Out.Add(w.Amount)
		case StatusPending:
			if opts.IncludePending {
				e.Out = e.Out.Add(w.Amount)
			}
		}
	}
	for i := range entries {
		entries[i].Net = entries[i].In.Sub(entries[i].Out)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Net.GreaterThan(entries[j].Net)
	})
	return entries
}

// FindTotals returns the entry for ownerID, if present.
func FindTotals(entries []EmployeeTotals, ownerID string) (EmployeeTotals, bool) {
	for _, e := range entries {
		if e.OwnerID == ownerID {
			return e, true
		}
	}
	return EmployeeTotals{}, false
}
