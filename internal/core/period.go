package core

import "time"

// Period is the monthly (or all-time) window aggregation is scoped to.
// Months are 1-12. Window boundaries are UTC midnight: the source variants
// disagreed between local and UTC month edges, so a single policy is fixed
// here instead of inheriting the ambiguity.
type Period struct {
	Year  int
	Month int
	All   bool
}

// AllTime is the unbounded period.
func AllTime() Period { return Period{All: true} }

// MonthOf returns the period containing t, evaluated in UTC.
func MonthOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: int(u.Month())}
}

// PeriodWindow returns the half-open window [start, end) for a month.
// time.Date normalizes month 13, so the December to January rollover needs
// no special case.
func PeriodWindow(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Window returns the period's bounds. All-time has zero bounds.
func (p Period) Window() (start, end time.Time) {
	if p.All {
		return time.Time{}, time.Time{}
	}
	return PeriodWindow(p.Year, p.Month)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if p.All {
		return true
	}
	start, end := p.Window()
	return !t.Before(start) && t.Before(end)
}

// FilterByPeriod keeps deposits created inside the period.
func FilterByPeriod(deposits []Deposit, p Period) []Deposit {
	if p.All {
		return deposits
	}
	out := make([]Deposit, 0, len(deposits))
	for _, d := range deposits {
		if p.Contains(d.CreatedAt) {
			out = append(out, d)
		}
	}
	return out
}

// FilterWithdrawalsByPeriod keeps withdrawals created inside the period.
func FilterWithdrawalsByPeriod(ws []Withdrawal, p Period) []Withdrawal {
	if p.All {
		return ws
	}
	out := make([]Withdrawal, 0, len(ws))
	for _, w := range ws {
		if p.Contains(w.CreatedAt) {
			out = append(out, w)
		}
	}
	return out
}
