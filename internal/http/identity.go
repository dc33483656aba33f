package http

import (
	"net/http"
	"strings"

	"inout/internal/core"
	"inout/internal/log"
)

// Identity headers set by the auth proxy in front of the service.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

// viewerHandler is an http.HandlerFunc that has already resolved the
// calling user's profile.
type viewerHandler func(w http.ResponseWriter, r *http.Request, viewer core.Profile)

// requireViewer resolves the identity headers into a profile, creating it
// on first sight. Requests without an identity are rejected.
func (s *Server) requireViewer(next viewerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}
		email := strings.TrimSpace(r.Header.Get(HeaderUserEmail))

		viewer, err := s.backend.EnsureProfile(r.Context(), userID, email)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to resolve viewer profile",
				log.FieldViewerID, userID, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "failed to resolve identity")
			return
		}

		next(w, r, viewer)
	}
}

// requireManager rejects non-manager viewers.
func (s *Server) requireManager(next viewerHandler) viewerHandler {
	return func(w http.ResponseWriter, r *http.Request, viewer core.Profile) {
		if viewer.Role != core.RoleManager {
			writeError(w, http.StatusForbidden, "manager role required")
			return
		}
		next(w, r, viewer)
	}
}
