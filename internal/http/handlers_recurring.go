package http

import (
	"errors"
	"net/http"
	"time"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
)

// handleCreateRecurringDeposit registers a template the recurring worker
// materializes into real deposits on its cadence.
func (s *Server) handleCreateRecurringDeposit(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	var payload recurringPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := core.RecurringDeposit{
		OwnerID:       viewer.UserID,
		Amount:        core.ParseAmount(payload.Amount),
		ClientAccount: payload.ClientAccount,
		ClientName:    payload.ClientName,
		Note:          payload.Note,
		Recurrence:    core.Recurrence(payload.Recurrence),
	}
	if payload.StartDate != "" {
		start, err := time.Parse(time.RFC3339, payload.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		t.StartDate = start.UTC()
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.backend.CreateRecurringDeposit(r.Context(), t)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create recurring deposit",
			log.FieldOwnerID, viewer.UserID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to create recurring deposit")
		return
	}
	t.ID = id

	writeJSON(w, http.StatusCreated, toRecurringJSON(t))
}

func (s *Server) handleListRecurringDeposits(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	templates, err := s.backend.ListRecurringDeposits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recurring deposits")
		return
	}

	// Employees see their own templates; a manager may scope to any owner
	// or list everyone by passing no owner_id.
	ownerID := viewer.UserID
	if viewer.Role == core.RoleManager {
		ownerID = r.URL.Query().Get("owner_id")
	}

	out := make([]recurringJSON, 0, len(templates))
	for _, t := range templates {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		out = append(out, toRecurringJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteRecurringDeposit(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	id := r.PathValue("id")

	templates, err := s.backend.ListRecurringDeposits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recurring deposits")
		return
	}
	var target *core.RecurringDeposit
	for i := range templates {
		if templates[i].ID == id {
			target = &templates[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "recurring deposit not found")
		return
	}
	if target.OwnerID != viewer.UserID && viewer.Role != core.RoleManager {
		writeError(w, http.StatusForbidden, "not your record")
		return
	}

	if err := s.backend.DeleteRecurringDeposit(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recurring deposit not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete recurring deposit")
		return
	}

	s.logger.InfoContext(r.Context(), "Recurring deposit deleted",
		log.FieldRecordID, id,
		log.FieldViewerID, viewer.UserID)

	w.WriteHeader(http.StatusNoContent)
}
