package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"eventdesk/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// ProfileStore persists accounts.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (core.Profile, error)
}

// PasswordAuthenticator registers and checks email/password accounts.
type PasswordAuthenticator struct {
	store ProfileStore
	cost  int
}

func NewPasswordAuthenticator(store ProfileStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a profile with a hashed password. A taken email yields
// core.ErrEmailExists.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, fullName, credential string) (core.Profile, error) {
	email = strings.TrimSpace(email)
	if !core.ValidEmail(email) {
		return core.Profile{}, &core.ValidationError{Field: "email", Err: core.ErrInvalidEmail}
	}
	if err := a.ValidateCredential(credential); err != nil {
		return core.Profile{}, &core.ValidationError{Field: "password", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return core.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	p, err := a.store.CreateProfile(ctx, core.Profile{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
	})
	if err != nil {
		return core.Profile{}, err
	}
	return p, nil
}

// Authenticate returns the profile when email and password match.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (core.Profile, error) {
	p, err := a.store.GetProfileByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return core.Profile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(credential)); err != nil {
		return core.Profile{}, ErrInvalidCredentials
	}
	return p, nil
}
