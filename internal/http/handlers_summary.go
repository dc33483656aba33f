package http

import (
	"fmt"
	"net/http"

	"inout/internal/core"
	"inout/internal/ledger"
)

func periodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func cacheKey(kind string, p core.Period, suffix string) string {
	if p.All {
		return kind + ":all:" + suffix
	}
	return kind + ":" + periodKey(p.Year, p.Month) + ":" + suffix
}

// handleSelfSummary reports the viewer's own IN total and approved OUT
// total for the selected period.
func (s *Server) handleSelfSummary(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("self", period, viewer.UserID)
	if cached, ok := s.selfCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	scope := ledger.Scope{OwnerID: viewer.UserID, Period: period}
	deposits, err := s.backend.ListDeposits(r.Context(), scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deposits")
		return
	}
	withdrawals, err := s.backend.ListWithdrawals(r.Context(), scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list withdrawals")
		return
	}

	totals := core.ComputeSelfTotals(deposits, withdrawals, viewer.UserID, period)
	summary := selfSummary{
		Period:      toPeriodJSON(period),
		In:          core.FormatAmount(totals.In),
		OutApproved: core.FormatAmount(totals.OutApproved),
		Net:         core.FormatAmount(totals.In.Sub(totals.OutApproved)),
	}

	s.selfCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

// handleTeamSummary reports per-employee totals across the whole team,
// ordered by descending net.
func (s *Server) handleTeamSummary(w http.ResponseWriter, r *http.Request, _ core.Profile) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey("team", period, "")
	if cached, ok := s.teamCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	scope := ledger.Scope{Period: period}
	deposits, err := s.backend.ListDeposits(r.Context(), scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deposits")
		return
	}
	withdrawals, err := s.backend.ListWithdrawals(r.Context(), scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list withdrawals")
		return
	}
	profiles, err := s.backend.ListProfiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	index := core.BuildProfileIndex(profiles)

	entries := core.ComputePerEmployeeTotals(deposits, withdrawals, core.TotalsOptions{
		IncludePending: s.opts.IncludePendingInTotals,
		Period:         period,
	})

	summary := teamSummary{
		Period:         toPeriodJSON(period),
		IncludePending: s.opts.IncludePendingInTotals,
		Employees:      make([]employeeTotalJSON, 0, len(entries)),
	}
	for _, e := range entries {
		row := employeeTotalJSON{
			OwnerID: e.OwnerID,
			Name:    core.ResolveDisplayName(e.OwnerID, index),
			In:      core.FormatAmount(e.In),
			Out:     core.FormatAmount(e.Out),
			Net:     core.FormatAmount(e.Net),
		}
		if p, ok := index[e.OwnerID]; ok {
			row.Email = p.Email
		}
		summary.Employees = append(summary.Employees, row)
	}

	s.teamCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}
