package http

import (
	"errors"
	"net/http"

	"eventdesk/internal/auth"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
)

// statusOf maps a service error to its HTTP status. Unknown errors are 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case core.IsValidation(err), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrBudgetExists),
		errors.Is(err, core.ErrVenueConflict),
		errors.Is(err, core.ErrInUse),
		errors.Is(err, core.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// errorResponse builds the response for err. Expected failures carry their
// own message; anything else is logged and reported as "failed to <action>".
func (s *Server) errorResponse(r *http.Request, err error, action string) *ResponseBuilder {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err,
			applog.FieldOperation, action,
			applog.FieldPath, r.URL.Path)
		return InternalServerError("failed to " + action)
	}

	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ErrorResponse(code, ve.Error()).Error(ve.Err.Error(), ve.Field)
	}
	msg := err.Error()
	if code == http.StatusNotFound {
		msg = "not found"
	}
	return ErrorResponse(code, msg)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	s.errorResponse(r, err, action).Write(w)
}

// writeListError keeps list endpoints usable: 200 with an empty list and an
// error notification.
func (s *Server) writeListError(w http.ResponseWriter, r *http.Request, err error, action string) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "List failed",
		applog.FieldError, err,
		applog.FieldOperation, action)
	NewResponse().
		Data([]struct{}{}).
		Notify(NotificationError, "failed to "+action).
		Write(w)
}
