package http

import (
	"net/http"

	"eventdesk/internal/core"
)

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vendors, err := s.svc.Vendors.List(r.Context(), sessionOf(r), sanitizeInput(q.Get("q")), sanitizeInput(q.Get("category")))
	if err != nil {
		s.writeListError(w, r, err, "load vendors")
		return
	}
	NewResponse().Data(nonNil(vendors)).Write(w)
}

func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Vendors.Get(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, "load vendor")
		return
	}
	NewResponse().Data(v).Write(w)
}

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var in core.Vendor
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "create vendor")
		return
	}
	v, err := s.svc.Vendors.Create(r.Context(), sessionOf(r), in)
	if err != nil {
		s.writeError(w, r, err, "create vendor")
		return
	}
	NewResponse().Status(http.StatusCreated).Data(v).Success("Vendor created").Write(w)
}

func (s *Server) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	var in core.Vendor
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "update vendor")
		return
	}
	v, err := s.svc.Vendors.Update(r.Context(), sessionOf(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err, "update vendor")
		return
	}
	NewResponse().Data(v).Success("Vendor updated").Write(w)
}

func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Vendors.Delete(r.Context(), sessionOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "delete vendor")
		return
	}
	NewResponse().Success("Vendor deleted").Write(w)
}
