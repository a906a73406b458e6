package service

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/gate"
	"github.com/autopeer-io/fleetview/pkg/log"
)

// Sessions is the part of the session manager the service depends on.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) bool
	Current() *model.Session
}

// Service implements the dashboard use cases on top of the session,
// the fleet and the telemetry source. Every read requires a session and
// every mutation requires an admin.
type Service struct {
	sessions  Sessions
	vehicles  core.VehicleRepository
	users     core.UserDirectory
	telemetry core.TelemetryProducer
	notifier  core.FleetNotifier
	logger    log.Logger
}

func New(
	sessions Sessions,
	vehicles core.VehicleRepository,
	users core.UserDirectory,
	telemetry core.TelemetryProducer,
	notifier core.FleetNotifier,
) *Service {
	return &Service{
		sessions:  sessions,
		vehicles:  vehicles,
		users:     users,
		telemetry: telemetry,
		notifier:  notifier,
		logger:    log.WithName("service"),
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	return s.sessions.Login(ctx, email, password)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

func (s *Service) Restore(ctx context.Context) bool {
	return s.sessions.Restore(ctx)
}

// Session returns the current session or ErrUnauthenticated.
func (s *Service) Session() (*model.Session, error) {
	cur := s.sessions.Current()
	if cur == nil {
		return nil, core.ErrUnauthenticated
	}
	return cur, nil
}

// Navigate resolves path against the current session.
func (s *Service) Navigate(path string) gate.Decision {
	return gate.Resolve(s.sessions.Current(), path)
}

func (s *Service) requireAdmin() (*model.Session, error) {
	cur, err := s.Session()
	if err != nil {
		return nil, err
	}
	if !cur.User.IsAdmin() {
		return nil, core.ErrForbidden
	}
	return cur, nil
}
