package core

// ExportRow is one line of the downloadable / syncable monthly report. It is
// shaped from the same per-employee aggregates the team view renders.
type ExportRow struct {
	OwnerID string
	Name    string
	Email   string
	Totals  EmployeeTotals
}

// ExportHeader is the column order of Record.
var ExportHeader = []string{"employee", "email", "in_total", "out_total", "net"}

// ExportRows shapes report rows from the per-employee totals, resolving
// display names through the profile index. Row order follows the totals.
func ExportRows(deposits []Deposit, withdrawals []Withdrawal, profiles ProfileIndex, opts TotalsOptions) []ExportRow {
	totals := ComputePerEmployeeTotals(deposits, withdrawals, opts)
	rows := make([]ExportRow, 0, len(totals))
	for _, t := range totals {
		row := ExportRow{OwnerID: t.OwnerID, Name: ResolveDisplayName(t.OwnerID, profiles), Totals: t}
		if p, ok := profiles[t.OwnerID]; ok {
			row.Email = p.Email
		}
		rows = append(rows, row)
	}
	return rows
}

// Record renders the row as CSV fields in ExportHeader order.
func (r ExportRow) Record() []string {
	return []string{
		r.Name,
		r.Email,
		FormatAmount(r.Totals.In),
		FormatAmount(r.Totals.Out),
		FormatAmount(r.Totals.Net),
	}
}
