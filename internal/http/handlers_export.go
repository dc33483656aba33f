package http

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
)

// handleExportCSV streams the per-employee monthly report as CSV. The rows
// mirror the team summary exactly, including ordering.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
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

	rows := core.ExportRows(deposits, withdrawals, core.BuildProfileIndex(profiles), core.TotalsOptions{
		IncludePending: s.opts.IncludePendingInTotals,
		Period:         period,
	})

	filename := "inout-all.csv"
	if !period.All {
		filename = fmt.Sprintf("inout-%s.csv", periodKey(period.Year, period.Month))
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(core.ExportHeader); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to write CSV header", log.FieldError, err)
		return
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to write CSV row",
				log.FieldOwnerID, row.OwnerID, log.FieldError, err)
			return
		}
	}
	cw.Flush()

	s.logger.InfoContext(r.Context(), "Exported report",
		log.FieldOperation, log.OpExport,
		log.FieldViewerID, viewer.UserID,
		"rows", len(rows))
}
