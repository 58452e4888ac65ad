package http

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard.Dashboard(r.Context(), sessionOf(r))
	if err != nil {
		s.writeError(w, r, err, "load dashboard")
		return
	}
	NewResponse().Data(d).Write(w)
}

// handleActivity lists the latest change records. Workers only.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := ParseLimit(r.URL.Query(), 50, 500)
	entries, err := s.svc.Activity.Recent(r.Context(), sessionOf(r), limit)
	if err != nil {
		s.writeError(w, r, err, "load activity")
		return
	}
	NewResponse().Data(nonNil(entries)).Write(w)
}
