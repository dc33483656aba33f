// Package memory is an in-process report sink for development and tests.
package memory

import (
	"context"
	"sync"

	"inout/internal/core"
	"inout/internal/report"
)

type Append struct {
	Year  int
	Month int
	Rows  []core.ExportRow
}

type Appender struct {
	mu      sync.Mutex
	appends []Append
}

var _ report.Appender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendMonthlyReport(_ context.Context, year, month int, rows []core.ExportRow) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.appends = append(a.appends, Append{Year: year, Month: month, Rows: rows})
	return nil
}

// Appends returns a copy of everything appended so far.
func (a *Appender) Appends() []Append {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Append, len(a.appends))
	copy(out, a.appends)
	return out
}
