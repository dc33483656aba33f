package http

import (
	"errors"
	"net/http"

	"inout/internal/core"
	"inout/internal/ledger"
	"inout/internal/log"
)

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, viewer core.Profile) {
	writeJSON(w, http.StatusOK, toProfileJSON(viewer))
}

// handleSetRole changes a profile's role. Managers may change anyone.
// Everyone else may only flip their own role, and only when the
// self-role toggle is enabled.
func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
	var payload rolePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	targetID := payload.UserID
	if targetID == "" {
		targetID = viewer.UserID
	}

	role := core.Role(payload.Role)
	if !role.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if viewer.Role != core.RoleManager {
		if !s.opts.SelfRoleToggle || targetID != viewer.UserID {
			writeError(w, http.StatusForbidden, "not allowed to change this role")
			return
		}
	}

	if err := s.backend.SetRole(r.Context(), targetID, role); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to set role")
		return
	}

	s.logger.InfoContext(r.Context(), "Role changed",
		log.FieldViewerID, viewer.UserID,
		log.FieldOwnerID, targetID,
		log.FieldRole, string(role))

	updated, err := s.backend.GetProfile(r.Context(), targetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read profile")
		return
	}
	writeJSON(w, http.StatusOK, toProfileJSON(updated))
}
