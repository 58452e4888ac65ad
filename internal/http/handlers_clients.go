package http

import (
	"net/http"

	"eventdesk/internal/core"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.svc.Clients.List(r.Context(), sessionOf(r), sanitizeInput(r.URL.Query().Get("q")))
	if err != nil {
		s.writeListError(w, r, err, "load clients")
		return
	}
	NewResponse().Data(nonNil(clients)).Write(w)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Clients.Get(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, "load client")
		return
	}
	NewResponse().Data(c).Write(w)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in core.Client
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "create client")
		return
	}
	c, err := s.svc.Clients.Create(r.Context(), sessionOf(r), in)
	if err != nil {
		s.writeError(w, r, err, "create client")
		return
	}
	NewResponse().Status(http.StatusCreated).Data(c).Success("Client created").Write(w)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var in core.Client
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "update client")
		return
	}
	c, err := s.svc.Clients.Update(r.Context(), sessionOf(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err, "update client")
		return
	}
	NewResponse().Data(c).Success("Client updated").Write(w)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clients.Delete(r.Context(), sessionOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "delete client")
		return
	}
	NewResponse().Success("Client deleted").Write(w)
}
