package services

import (
	"testing"
	"time"

	"inout/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyChecker(t *testing.T) {
	start := day(2024, 1, 15)
	checker := MonthlyChecker{}

	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, day(2024, 2, 1), true},
		{"before start date", time.Time{}, day(2023, 12, 1), false},
		{"already ran this month", day(2024, 2, 15), day(2024, 2, 20), false},
		{"new month before target day", day(2024, 1, 15), day(2024, 2, 10), false},
		{"new month on target day", day(2024, 1, 15), day(2024, 2, 15), true},
		{"new month past target day", day(2024, 1, 15), day(2024, 2, 20), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("day 31 clamps in february", func(t *testing.T) {
		anchored := day(2024, 1, 31)
		if !checker.IsDue(anchored, day(2024, 2, 29), anchored) {
			t.Error("expected due on the last day of february")
		}
		if checker.IsDue(anchored, day(2024, 2, 28), anchored) {
			t.Error("expected not due before the clamped day")
		}
	})
}

func TestYearlyChecker(t *testing.T) {
	start := day(2023, 6, 10)
	checker := YearlyChecker{}

	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, day(2024, 1, 1), true},
		{"already ran this year", day(2024, 6, 10), day(2024, 11, 1), false},
		{"new year before target month", day(2023, 6, 10), day(2024, 5, 1), false},
		{"new year on target day", day(2023, 6, 10), day(2024, 6, 10), true},
		{"new year past target month", day(2023, 6, 10), day(2024, 7, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	if _, err := GetDuenessChecker(core.RecurMonthly); err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if _, err := GetDuenessChecker(core.RecurYearly); err != nil {
		t.Fatalf("yearly: %v", err)
	}
	if _, err := GetDuenessChecker(core.RecurNone); err == nil {
		t.Fatal("expected error for unsupported recurrence")
	}
}
