package http

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().Data(map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady pings the database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		NewResponse().Data(map[string]string{"status": "ready"}).Write(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
		NewResponse().
			Status(http.StatusServiceUnavailable).
			Data(map[string]string{"status": "not_ready", "database": err.Error()}).
			Write(w)
		return
	}
	NewResponse().Data(map[string]string{"status": "ready", "database": "ok"}).Write(w)
}
