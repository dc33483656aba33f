// Package http exposes the ledger as a JSON API. Identity arrives from the
// auth proxy as trusted X-User-Id / X-User-Email headers.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"inout/internal/cache"
	"inout/internal/ledger"
	"inout/internal/log"
)

// Options carries the aggregation and role policy flags.
type Options struct {
	// IncludePendingInTotals widens team OUT totals to pending withdrawals.
	IncludePendingInTotals bool
	// SelfRoleToggle lets any user flip their own role. Off by default;
	// then only managers may change roles.
	SelfRoleToggle bool
}

type Server struct {
	http.Server
	backend ledger.Backend
	opts    Options
	logger  *log.Logger

	rateLimiter *rateLimiter

	// Computed summaries are cached per viewer and period; ledger events
	// invalidate the affected month.
	selfCache *cache.LRU[selfSummary]
	teamCache *cache.LRU[teamSummary]
	caches    *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, backend ledger.Backend, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:     backend,
		opts:        opts,
		logger:      log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		selfCache:   cache.NewLRU[selfSummary](200, 5*time.Minute),
		teamCache:   cache.NewLRU[teamSummary](100, 5*time.Minute),
		caches:      cache.NewManager(),
	}

	s.caches.Register(s.selfCache)
	s.caches.Register(s.teamCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/me", s.wrap(s.handleMe))
	mux.HandleFunc("PUT /api/profiles/role", s.wrap(s.handleSetRole))

	mux.HandleFunc("POST /api/deposits", s.wrap(s.handleCreateDeposit))
	mux.HandleFunc("GET /api/deposits", s.wrap(s.handleListDeposits))
	mux.HandleFunc("GET /api/deposits/{id}", s.wrap(s.handleGetDeposit))
	mux.HandleFunc("PUT /api/deposits/{id}", s.wrap(s.handleUpdateDeposit))

	mux.HandleFunc("POST /api/withdrawals", s.wrap(s.handleCreateWithdrawal))
	mux.HandleFunc("GET /api/withdrawals", s.wrap(s.handleListWithdrawals))
	mux.HandleFunc("GET /api/withdrawals/{id}", s.wrap(s.handleGetWithdrawal))
	mux.HandleFunc("PUT /api/withdrawals/{id}", s.wrap(s.handleUpdateWithdrawal))
	mux.HandleFunc("PUT /api/withdrawals/{id}/status", s.wrap(s.requireManager(s.handleSetWithdrawalStatus)))

	mux.HandleFunc("POST /api/recurring-deposits", s.wrap(s.handleCreateRecurringDeposit))
	mux.HandleFunc("GET /api/recurring-deposits", s.wrap(s.handleListRecurringDeposits))
	mux.HandleFunc("DELETE /api/recurring-deposits/{id}", s.wrap(s.handleDeleteRecurringDeposit))

	mux.HandleFunc("GET /api/summary/self", s.wrap(s.handleSelfSummary))
	mux.HandleFunc("GET /api/summary/team", s.wrap(s.requireManager(s.handleTeamSummary)))
	mux.HandleFunc("GET /api/export.csv", s.wrap(s.requireManager(s.handleExportCSV)))

	return s
}

// wrap composes the standard middleware chain around a viewer handler.
func (s *Server) wrap(h viewerHandler) http.HandlerFunc {
	return s.withMiddleware(s.requireViewer(h))
}

// InvalidateMonth drops cached summaries covering one month. All-time
// entries go too since they include every month.
func (s *Server) InvalidateMonth(year, month int) {
	prefix := periodKey(year, month)
	n := s.selfCache.DeletePrefix("self:" + prefix)
	n += s.teamCache.DeletePrefix("team:" + prefix)
	n += s.selfCache.DeletePrefix("self:all")
	n += s.teamCache.DeletePrefix("team:all")
	if n > 0 {
		s.logger.Debug("Invalidated cached summaries",
			log.FieldYear, year, log.FieldMonth, month, "entries", n)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.backend.ListProfiles(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "backend not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
