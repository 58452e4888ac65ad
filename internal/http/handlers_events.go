package http

import (
	"net/http"

	"eventdesk/internal/core"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Events.List(r.Context(), sessionOf(r))
	if err != nil {
		s.writeListError(w, r, err, "load events")
		return
	}
	NewResponse().Data(nonNil(events)).Write(w)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Events.Get(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, "load event")
		return
	}
	NewResponse().Data(e).Write(w)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in core.Event
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "create event")
		return
	}
	e, err := s.svc.Events.Create(r.Context(), sessionOf(r), in)
	if err != nil {
		s.writeError(w, r, err, "create event")
		return
	}
	NewResponse().Status(http.StatusCreated).Data(e).Success("Event created").Write(w)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in core.Event
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "update event")
		return
	}
	e, err := s.svc.Events.Update(r.Context(), sessionOf(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err, "update event")
		return
	}
	NewResponse().Data(e).Success("Event updated").Write(w)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Events.Delete(r.Context(), sessionOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "delete event")
		return
	}
	NewResponse().Success("Event deleted").Write(w)
}

// handleCheckConflict answers whether a slot is taken, for forms that check
// before submitting.
func (s *Server) handleCheckConflict(w http.ResponseWriter, r *http.Request) {
	slot, err := ParseSlot(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, "check venue")
		return
	}
	conflict := s.svc.Events.CheckConflict(r.Context(), slot)
	resp := NewResponse().Data(map[string]bool{"conflict": conflict})
	if conflict {
		resp.Notify(NotificationWarning, core.ErrVenueConflict.Error())
	}
	resp.Write(w)
}

// handleEventsCalendar serves the caller's visible events as iCalendar.
func (s *Server) handleEventsCalendar(w http.ResponseWriter, r *http.Request) {
	sess := sessionOf(r)
	events, err := s.svc.Events.List(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err, "export calendar")
		return
	}
	clients, err := s.svc.Clients.List(r.Context(), sess, "")
	if err != nil {
		s.writeError(w, r, err, "export calendar")
		return
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	if err := s.calendar.Write(w, events, names); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to write calendar", "error", err)
	}
}
