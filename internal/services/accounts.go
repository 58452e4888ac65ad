package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/amqp"
	"eventdesk/internal/auth"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

// Registration is the sign-up form. Role is optional and defaults to user
// on first resolution.
type Registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Token is a bearer credential handed out on sign-up and login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Me is the caller's profile together with the resolved role.
type Me struct {
	core.Profile
	Role core.Role `json:"role"`
}

type AccountService struct {
	repo    *storage.SQLiteRepository
	authn   *auth.PasswordAuthenticator
	tokens  *auth.JWTManager
	changes *Changes
	logger  *applog.Logger
}

func NewAccountService(repo *storage.SQLiteRepository, authn *auth.PasswordAuthenticator, tokens *auth.JWTManager, changes *Changes, logger *applog.Logger) *AccountService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &AccountService{
		repo:    repo,
		authn:   authn,
		tokens:  tokens,
		changes: changes,
		logger:  logger.WithComponent(applog.ComponentAuth),
	}
}

// Register creates the profile, stores the chosen role if any, and signs
// the caller in.
func (s *AccountService) Register(ctx context.Context, in Registration) (Me, Token, error) {
	var role core.Role
	if strings.TrimSpace(in.Role) != "" {
		r, err := core.ParseRole(in.Role)
		if err != nil {
			return Me{}, Token{}, &core.ValidationError{Field: "role", Err: err}
		}
		role = r
	}

	p, err := s.authn.Register(ctx, in.Email, in.FullName, in.Password)
	if err != nil {
		return Me{}, Token{}, err
	}
	s.changes.Notify(ctx, amqp.EntityProfile, amqp.ActionCreated, p.ID, p.ID)

	if role != "" {
		if err := session.NewResolver(s.repo, p.ID).Switch(ctx, role); err != nil {
			return Me{}, Token{}, fmt.Errorf("store role: %w", err)
		}
		s.changes.Notify(ctx, amqp.EntityRole, amqp.ActionUpdated, p.ID, p.ID)
	} else {
		role = core.RoleUser
	}

	tok, err := s.issue(p)
	if err != nil {
		return Me{}, Token{}, err
	}
	s.logger.InfoContext(ctx, "Registered account", applog.FieldUserID, p.ID, applog.FieldRole, string(role))
	return Me{Profile: p, Role: role}, tok, nil
}

// Login exchanges email and password for a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (Token, error) {
	p, err := s.authn.Authenticate(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.issue(p)
}

// Session resolves the role of an authenticated user. A failed lookup is
// logged and yields the user role.
func (s *AccountService) Session(ctx context.Context, userID, email string) session.Session {
	role, err := session.NewResolver(s.repo, userID).Resolve(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Role lookup failed, defaulting to user",
			applog.FieldError, err,
			applog.FieldUserID, userID,
			applog.FieldOperation, applog.OpResolve)
	}
	return session.Session{UserID: userID, Email: email, Role: role}
}

func (s *AccountService) Me(ctx context.Context, sess session.Session) (Me, error) {
	p, err := s.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return Me{}, err
	}
	return Me{Profile: p, Role: sess.Role}, nil
}

func (s *AccountService) UpdateName(ctx context.Context, sess session.Session, fullName string) (Me, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return Me{}, &core.ValidationError{Field: "full_name", Err: core.ErrEmptyName}
	}
	if err := s.repo.UpdateProfileName(ctx, sess.UserID, fullName); err != nil {
		return Me{}, err
	}
	s.changes.Notify(ctx, amqp.EntityProfile, amqp.ActionUpdated, sess.UserID, sess.UserID)
	return s.Me(ctx, sess)
}

// SwitchRole upserts the caller's role and returns the updated session.
func (s *AccountService) SwitchRole(ctx context.Context, sess session.Session, role string) (session.Session, error) {
	r, err := core.ParseRole(role)
	if err != nil {
		return sess, &core.ValidationError{Field: "role", Err: err}
	}
	if err := session.NewResolver(s.repo, sess.UserID).Switch(ctx, r); err != nil {
		return sess, fmt.Errorf("switch role: %w", err)
	}
	s.changes.Notify(ctx, amqp.EntityRole, amqp.ActionUpdated, sess.UserID, sess.UserID)
	sess.Role = r
	return sess, nil
}

func (s *AccountService) issue(p core.Profile) (Token, error) {
	signed, expires, err := s.tokens.Generate(p)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expires}, nil
}
