// Package report defines the outbound port for monthly report exports.
package report

import (
	"context"

	"inout/internal/core"
)

// Appender writes one month's per-employee totals to an external report.
type Appender interface {
	AppendMonthlyReport(ctx context.Context, year, month int, rows []core.ExportRow) error
}
