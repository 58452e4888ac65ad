// Package http serves the JSON API.
//
// Responses share one envelope: {"data": ...} on success and
// {"error": ..., "field": ...} on failure, both optionally carrying a
// {"type", "message"} notification for the client to display.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

type envelope struct {
	Data         any           `json:"data,omitempty"`
	Error        string        `json:"error,omitempty"`
	Field        string        `json:"field,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// ResponseBuilder assembles one JSON response.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       envelope
	empty      bool
}

// NewResponse starts a 200 response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{statusCode: http.StatusOK, headers: make(map[string]string)}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *ResponseBuilder) Data(v any) *ResponseBuilder {
	b.body.Data = v
	return b
}

func (b *ResponseBuilder) Error(message, field string) *ResponseBuilder {
	b.body.Error = message
	b.body.Field = field
	return b
}

func (b *ResponseBuilder) Notify(t NotificationType, message string) *ResponseBuilder {
	b.body.Notification = &Notification{Type: t, Message: message}
	return b
}

func (b *ResponseBuilder) Success(message string) *ResponseBuilder {
	return b.Notify(NotificationSuccess, message)
}

// NoContent drops the body; used for 204.
func (b *ResponseBuilder) NoContent() *ResponseBuilder {
	b.statusCode = http.StatusNoContent
	b.empty = true
	return b
}

func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.empty {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// ErrorResponse is an error body plus a matching error notification.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		Error(message, "").
		Notify(NotificationError, message)
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
