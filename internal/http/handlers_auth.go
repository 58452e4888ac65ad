package http

import (
	"net/http"

	"eventdesk/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type nameRequest struct {
	FullName string `json:"full_name"`
}

type roleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.Registration
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "register")
		return
	}
	// ?role= preselects the role, as the landing page does.
	if in.Role == "" {
		in.Role = r.URL.Query().Get("role")
	}
	me, tok, err := s.svc.Accounts.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "register")
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		Data(map[string]any{"user": me, "token": tok}).
		Success("Account created").
		Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "sign in")
		return
	}
	tok, err := s.svc.Accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(w, r, err, "sign in")
		return
	}
	NewResponse().Data(tok).Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me, err := s.svc.Accounts.Me(r.Context(), sessionOf(r))
	if err != nil {
		s.writeError(w, r, err, "load profile")
		return
	}
	NewResponse().Data(me).Write(w)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in nameRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "update profile")
		return
	}
	me, err := s.svc.Accounts.UpdateName(r.Context(), sessionOf(r), sanitizeInput(in.FullName))
	if err != nil {
		s.writeError(w, r, err, "update profile")
		return
	}
	NewResponse().Data(me).Success("Profile updated").Write(w)
}

func (s *Server) handleSwitchRole(w http.ResponseWriter, r *http.Request) {
	var in roleRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "switch role")
		return
	}
	sess, err := s.svc.Accounts.SwitchRole(r.Context(), sessionOf(r), in.Role)
	if err != nil {
		s.writeError(w, r, err, "switch role")
		return
	}
	me, err := s.svc.Accounts.Me(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err, "switch role")
		return
	}
	NewResponse().Data(me).Success("Role switched to " + string(sess.Role)).Write(w)
}
