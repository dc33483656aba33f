// Strategy Pattern for recurring deposit dueness. Each supported cadence
// has its own checker encapsulating the due/not-due decision.

package services

import (
	"fmt"
	"time"

	"inout/internal/core"
)

// DuenessChecker decides whether a recurring deposit template should run.
type DuenessChecker interface {
	// IsDue reports whether the template should be processed given the last
	// run time, the current time, and the template start date.
	IsDue(lastRun, now, startDate time.Time) bool
}

// MonthlyChecker implements DuenessChecker for monthly templates.
type MonthlyChecker struct{}

// IsDue returns true in a new month once the target day is reached. The
// target day is the start date's day, clamped to short months.
func (MonthlyChecker) IsDue(lastRun, now, startDate time.Time) bool {
	if now.Before(startDate) {
		return false
	}
	if lastRun.IsZero() {
		return true
	}

	// Already processed this month?
	if lastRun.Year() == now.Year() && lastRun.Month() == now.Month() {
		return false
	}

	return now.Day() >= clampDay(startDate.Day(), now)
}

// YearlyChecker implements DuenessChecker for yearly templates.
type YearlyChecker struct{}

// IsDue returns true in a new year once the target month and day are reached.
func (YearlyChecker) IsDue(lastRun, now, startDate time.Time) bool {
	if now.Before(startDate) {
		return false
	}
	if lastRun.IsZero() {
		return true
	}

	// Already processed this year?
	if lastRun.Year() == now.Year() {
		return false
	}

	switch {
	case now.Month() < startDate.Month():
		return false
	case now.Month() == startDate.Month():
		return now.Day() >= clampDay(startDate.Day(), now)
	default:
		return true
	}
}

// clampDay adjusts a target day of month to fit the month of now, so a
// template anchored on the 31st still runs in February.
func clampDay(targetDay int, now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDay {
		return lastDay
	}
	return targetDay
}

var duenessStrategies = map[core.Recurrence]DuenessChecker{
	core.RecurMonthly: MonthlyChecker{},
	core.RecurYearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a recurrence cadence.
func GetDuenessChecker(r core.Recurrence) (DuenessChecker, error) {
	checker, ok := duenessStrategies[r]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", r)
	}
	return checker, nil
}
