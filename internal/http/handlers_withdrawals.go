package http

import (
	"errors"
	"net/http"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
)

func (s *Server) handleCreateWithdrawal(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	var payload withdrawalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := core.Withdrawal{
		OwnerID:       viewer.UserID,
		Amount:        core.ParseAmount(payload.Amount),
		ClientAccount: payload.ClientAccount,
		ClientName:    payload.ClientName,
		Note:          payload.Note,
		// New requests always start pending.
		Status: core.StatusPending,
	}

	id, err := s.backend.CreateWithdrawal(r.Context(), req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create withdrawal",
			log.FieldOwnerID, viewer.UserID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to create withdrawal")
		return
	}

	saved, err := s.backend.GetWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read created withdrawal")
		return
	}
	s.InvalidateMonth(saved.CreatedAt.Year(), int(saved.CreatedAt.Month()))

	writeJSON(w, http.StatusCreated, toWithdrawalJSON(saved, nil))
}

// handleListWithdrawals serves two views from one endpoint: employees get
// their own requests, managers get the review table with status and search
// filters over everyone's requests.
func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scope := ledger.Scope{OwnerID: viewer.UserID, Period: period}
	if viewer.Role == core.RoleManager {
		scope.OwnerID = r.URL.Query().Get("owner_id")
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

	filter := core.RequestFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	filtered := core.FilterRequests(withdrawals, filter, index)

	out := make([]withdrawalJSON, 0, len(filtered))
	for _, wd := range filtered {
		out = append(out, toWithdrawalJSON(wd, index))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWithdrawal(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	wd, err := s.backend.GetWithdrawal(r.Context(), r.PathValue("id"))
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "withdrawal not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read withdrawal")
		return
	}
	if wd.OwnerID != viewer.UserID && viewer.Role != core.RoleManager {
		writeError(w, http.StatusForbidden, "not your record")
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalJSON(wd, nil))
}

func (s *Server) handleUpdateWithdrawal(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	id := r.PathValue("id")
	existing, err := s.backend.GetWithdrawal(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "withdrawal not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read withdrawal")
		return
	}
	if existing.OwnerID != viewer.UserID && viewer.Role != core.RoleManager {
		writeError(w, http.StatusForbidden, "not your record")
		return
	}

	var payload withdrawalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing.Amount = core.ParseAmount(payload.Amount)
	existing.ClientAccount = payload.ClientAccount
	existing.ClientName = payload.ClientName
	existing.Note = payload.Note

	if err := s.backend.UpdateWithdrawal(r.Context(), existing); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update withdrawal")
		return
	}
	s.InvalidateMonth(existing.CreatedAt.Year(), int(existing.CreatedAt.Month()))

	saved, err := s.backend.GetWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read updated withdrawal")
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalJSON(saved, nil))
}

// handleSetWithdrawalStatus moves a request among pending/approved/rejected.
// Transitions are unconstrained, so a decision can be revised either way.
func (s *Server) handleSetWithdrawalStatus(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	id := r.PathValue("id")

	var payload statusPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := core.ParseStatus(payload.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := s.backend.SetWithdrawalStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "withdrawal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to set status")
		return
	}

	saved, err := s.backend.GetWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read withdrawal")
		return
	}
	s.InvalidateMonth(saved.CreatedAt.Year(), int(saved.CreatedAt.Month()))

	s.logger.InfoContext(r.Context(), "Withdrawal status changed",
		log.FieldRecordID, id,
		log.FieldStatus, string(status),
		log.FieldViewerID, viewer.UserID)

	writeJSON(w, http.StatusOK, toWithdrawalJSON(saved, nil))
}
