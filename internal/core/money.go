// Package core implements the pure ledger aggregation: period windowing,
// per-owner totals, request filtering and export row shaping. It performs no
// I/O and holds no state; callers hand it already-fetched record snapshots.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the decimal precision amounts are carried at.
const AmountPlaces = 3

// ParseAmount converts a decimal string to an amount, tolerantly.
//
// Both dot (12.34) and comma (12,34) separators are accepted and the result
// is rounded half-up to three decimal places. Malformed or negative input is
// coerced to zero rather than rejected; the store is the source of truth and
// a bad cell must not break aggregation.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(AmountPlaces)
}

// FormatAmount renders an amount at the canonical three decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
