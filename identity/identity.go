// Package identity signs people in and decides who may edit the site.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrAuthUnavailable is returned when no authentication service is configured.
	ErrAuthUnavailable = errors.New("identity: authentication unavailable")
)

// Identity is a signed-in user.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Authenticator is the authentication service.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context, id Identity) error
}
