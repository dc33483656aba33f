package http

import (
	"errors"
	"net/http"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
)

func (s *Server) handleCreateDeposit(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	var payload depositPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := core.Deposit{
		OwnerID:       viewer.UserID,
		Amount:        core.ParseAmount(payload.Amount),
		ClientAccount: payload.ClientAccount,
		ClientName:    payload.ClientName,
		Recurrence:    core.Recurrence(payload.Recurrence),
		Note:          payload.Note,
	}
	if !d.Recurrence.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid recurrence")
		return
	}

	id, err := s.backend.CreateDeposit(r.Context(), d)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create deposit",
			log.FieldOwnerID, viewer.UserID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to create deposit")
		return
	}

	saved, err := s.backend.GetDeposit(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read created deposit")
		return
	}
	s.InvalidateMonth(saved.CreatedAt.Year(), int(saved.CreatedAt.Month()))

	writeJSON(w, http.StatusCreated, toDepositJSON(saved))
}

func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Employees see their own records; a manager may scope to any owner or
	// list everyone by passing no owner_id.
	ownerID := viewer.UserID
	if viewer.Role == core.RoleManager {
		ownerID = r.URL.Query().Get("owner_id")
	}

	deposits, err := s.backend.ListDeposits(r.Context(), ledger.Scope{OwnerID: ownerID, Period: period})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deposits")
		return
	}

	out := make([]depositJSON, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, toDepositJSON(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	d, err := s.backend.GetDeposit(r.Context(), r.PathValue("id"))
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deposit not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read deposit")
		return
	}
	if d.OwnerID != viewer.UserID && viewer.Role != core.RoleManager {
		writeError(w, http.StatusForbidden, "not your record")
		return
	}
	writeJSON(w, http.StatusOK, toDepositJSON(d))
}

func (s *Server) handleUpdateDeposit(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	id := r.PathValue("id")
	existing, err := s.backend.GetDeposit(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deposit not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read deposit")
		return
	}
	// Amount and metadata are editable by the owner or a manager. The owner
	// itself never changes; the repository pins it on update.
	if existing.OwnerID != viewer.UserID && viewer.Role != core.RoleManager {
		writeError(w, http.StatusForbidden, "not your record")
		return
	}

	var payload depositPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing.Amount = core.ParseAmount(payload.Amount)
	existing.ClientAccount = payload.ClientAccount
	existing.ClientName = payload.ClientName
	existing.Recurrence = core.Recurrence(payload.Recurrence)
	existing.Note = payload.Note
	if !existing.Recurrence.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid recurrence")
		return
	}

	if err := s.backend.UpdateDeposit(r.Context(), existing); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update deposit")
		return
	}
	s.InvalidateMonth(existing.CreatedAt.Year(), int(existing.CreatedAt.Month()))

	saved, err := s.backend.GetDeposit(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read updated deposit")
		return
	}
	writeJSON(w, http.StatusOK, toDepositJSON(saved))
}
