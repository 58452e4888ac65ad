package http

import (
	"net/http"

	"eventdesk/internal/auth"
	applog "eventdesk/internal/log"
	"eventdesk/internal/session"
)

// authed requires a bearer token, resolves the caller's role and stores the
// session in the request context.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return auth.RequireAuth(s.tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := s.svc.Accounts.Session(ctx, auth.GetUserID(ctx), auth.GetEmail(ctx))
		logger := applog.FromContext(ctx).With(
			applog.FieldUserID, sess.UserID,
			applog.FieldRole, string(sess.Role))
		ctx = applog.NewContext(session.WithSession(ctx, sess), logger)
		next(w, r.WithContext(ctx))
	}))
}

func sessionOf(r *http.Request) session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
