package auth

import (
	"context"
	"errors"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/pkg/metrics"
	"github.com/autopeer-io/fleetview/pkg/log"
)

const (
	sourceRemote = "remote"
	sourceLocal  = "local"
)

func observe(source string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidCredentials):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.LoginAttempts.WithLabelValues(result, source).Inc()
}

var _ core.Authenticator = (*Fallback)(nil)

// Fallback tries primary and, when it fails for any reason, secondary.
//
// Any primary failure falls through, including an explicit rejection by
// the remote service, so the built-in accounts keep working offline. Turn
// it off by not wrapping the remote authenticator.
type Fallback struct {
	primary   core.Authenticator
	secondary core.Authenticator
	logger    log.Logger
}

func NewFallback(primary, secondary core.Authenticator) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    log.WithName("auth"),
	}
}

func (f *Fallback) Authenticate(ctx context.Context, email, password string) (*model.Session, error) {
	s, err := f.primary.Authenticate(ctx, email, password)
	if err == nil {
		return s, nil
	}

	f.logger.Warn("Remote login failed, using built-in accounts", "email", email, "error", err)
	metrics.AuthFallbacks.Inc()
	return f.secondary.Authenticate(ctx, email, password)
}
