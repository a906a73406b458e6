package core

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*model.Session, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, email, password string) (*model.Session, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, email, password string) (*model.Session, error) {
	return f(ctx, email, password)
}

// TokenVerifier checks a persisted token before the session carrying it is
// trusted again.
type TokenVerifier interface {
	VerifyToken(token string, user model.User) error
}
