// Package session carries the authenticated caller and its resolved role
// through service and storage calls.
package session

import (
	"context"
	"errors"
	"sync"

	"eventdesk/internal/core"
)

// Scope restricts queries to one owner unless All is set.
type Scope struct {
	Owner string
	All   bool
}

// Permits reports whether a row owned by owner is visible in the scope.
func (s Scope) Permits(owner string) bool {
	return s.All || s.Owner == owner
}

// Key identifies the scope in caches.
func (s Scope) Key() string {
	if s.All {
		return "*"
	}
	return "owner:" + s.Owner
}

// Session is the caller of a request.
type Session struct {
	UserID string
	Email  string
	Role   core.Role
}

func (s Session) IsWorker() bool { return s.Role == core.RoleWorker }

// Scope grants workers the whole dataset and users their own rows.
func (s Session) Scope() Scope {
	if s.IsWorker() {
		return Scope{Owner: s.UserID, All: true}
	}
	return Scope{Owner: s.UserID}
}

// RoleStore reads and upserts the role row of a user.
type RoleStore interface {
	GetRole(ctx context.Context, userID string) (core.Role, error)
	UpsertRole(ctx context.Context, userID string, role core.Role) error
}

type State int

const (
	Unresolved State = iota
	ResolvedUser
	ResolvedWorker
)

func (s State) String() string {
	switch s {
	case ResolvedUser:
		return "user"
	case ResolvedWorker:
		return "worker"
	}
	return "unresolved"
}

func stateOf(r core.Role) State {
	if r == core.RoleWorker {
		return ResolvedWorker
	}
	return ResolvedUser
}

// Resolver tracks the role of one user. A failed or empty lookup resolves
// to user. Switch writes through and updates the state without re-reading.
type Resolver struct {
	store  RoleStore
	userID string

	mu    sync.Mutex
	state State
}

func NewResolver(store RoleStore, userID string) *Resolver {
	return &Resolver{store: store, userID: userID}
}

func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Role returns the current role, or "" while unresolved.
func (r *Resolver) Role() core.Role {
	switch r.State() {
	case ResolvedWorker:
		return core.RoleWorker
	case ResolvedUser:
		return core.RoleUser
	}
	return ""
}

// Resolve loads the role on first use. The returned error is informational:
// the resolver is always left in a resolved state.
func (r *Resolver) Resolve(ctx context.Context) (core.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Unresolved {
		return roleOf(r.state), nil
	}
	role, err := r.store.GetRole(ctx, r.userID)
	if err != nil {
		r.state = ResolvedUser
		if errors.Is(err, core.ErrNotFound) {
			return core.RoleUser, nil
		}
		return core.RoleUser, err
	}
	r.state = stateOf(role)
	return roleOf(r.state), nil
}

// Switch persists role and makes it current.
func (r *Resolver) Switch(ctx context.Context, role core.Role) error {
	if role != core.RoleUser && role != core.RoleWorker {
		return core.ErrInvalidRole
	}
	if err := r.store.UpsertRole(ctx, r.userID, role); err != nil {
		return err
	}
	r.mu.Lock()
	r.state = stateOf(role)
	r.mu.Unlock()
	return nil
}

func roleOf(s State) core.Role {
	if s == ResolvedWorker {
		return core.RoleWorker
	}
	return core.RoleUser
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
