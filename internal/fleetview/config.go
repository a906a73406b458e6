package fleetview

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopeer-io/fleetview/internal/fleetview/auth"
	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
	"github.com/autopeer-io/fleetview/internal/fleetview/fleet"
	"github.com/autopeer-io/fleetview/internal/fleetview/notifier"
	"github.com/autopeer-io/fleetview/internal/fleetview/server"
	"github.com/autopeer-io/fleetview/internal/fleetview/server/http"
	"github.com/autopeer-io/fleetview/internal/fleetview/session"
	"github.com/autopeer-io/fleetview/internal/fleetview/storage"
	"github.com/autopeer-io/fleetview/internal/fleetview/telemetry"
	"github.com/autopeer-io/fleetview/pkg/log"
	"github.com/autopeer-io/fleetview/pkg/options"
)

type Config struct {
	HttpOptions      *options.HttpOptions
	MqttOptions      *options.MqttOptions
	SessionOptions   *options.SessionOptions
	RedisOptions     *options.RedisOptions
	AuthOptions      *options.AuthOptions
	TelemetryOptions *options.TelemetryOptions
}

// Store is a session store holding an external resource.
type Store interface {
	core.SessionStore
	Close() error
}

// NewStore opens the configured session backend.
func (cfg *Config) NewStore(ctx context.Context) (Store, error) {
	switch cfg.SessionOptions.Backend {
	case options.SessionBackendSQLite:
		s, err := storage.NewSQLite(ctx, cfg.SessionOptions.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case options.SessionBackendRedis:
		r, err := storage.NewRedis(ctx, cfg.RedisOptions)
		if err != nil {
			return nil, err
		}
		return r, nil
	case options.SessionBackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionOptions.Backend)
	}
}

// NewLocal builds the built-in accounts and the issuer of their tokens.
func (cfg *Config) NewLocal() (*auth.Local, error) {
	accounts, err := auth.DefaultAccounts()
	if err != nil {
		return nil, err
	}
	return auth.NewLocal(accounts, auth.TokenConfig{
		Secret: []byte(cfg.AuthOptions.TokenSecret),
		TTL:    cfg.AuthOptions.TokenTTL,
		Issuer: cfg.AuthOptions.Issuer,
	}), nil
}

// NewAuthenticator builds the login chain: the built-in accounts alone when
// no endpoint is configured, otherwise the remote endpoint, optionally
// backed by the built-in accounts.
func (cfg *Config) NewAuthenticator(local *auth.Local) core.Authenticator {
	if cfg.AuthOptions.Endpoint == "" {
		return local
	}

	remote := auth.NewRemote(cfg.AuthOptions.Endpoint, cfg.AuthOptions.Timeout)
	if !cfg.AuthOptions.OfflineFallback {
		return remote
	}
	return auth.NewFallback(remote, local)
}

// Dashboard is the assembled core with the resources it holds open.
type Dashboard struct {
	Service *service.Service

	store    Store
	notifier *notifier.MQTTNotifier
}

// NewDashboard wires storage, authentication, fleet, telemetry and the
// notifier into a Service and restores any persisted session.
func (cfg *Config) NewDashboard(ctx context.Context) (*Dashboard, error) {
	store, err := cfg.NewStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	local, err := cfg.NewLocal()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to init authenticator: %w", err)
	}

	d := &Dashboard{store: store}

	var fleetNotifier core.FleetNotifier = notifier.Nop{}
	if cfg.MqttOptions.Enabled {
		n, err := notifier.NewMQTTNotifier(ctx, cfg.MqttOptions)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		d.notifier = n
		fleetNotifier = n
	}

	sessions := session.NewManager(cfg.NewAuthenticator(local), store, session.WithTokenVerifier(local))

	simOpts := []telemetry.SimulatorOption{telemetry.WithWindow(cfg.TelemetryOptions.HistoryWindow)}
	if cfg.TelemetryOptions.Seed != 0 {
		simOpts = append(simOpts, telemetry.WithSeed(cfg.TelemetryOptions.Seed))
	}
	simulator := telemetry.NewSimulator(simOpts...)

	d.Service = service.New(
		sessions,
		fleet.NewRepository(fleet.WithVehicles(fleet.SeedVehicles()...)),
		fleet.NewDirectory(fleet.SeedUsers()...),
		simulator,
		fleetNotifier,
	)

	if d.Service.Restore(ctx) {
		log.Debug("Restored persisted session")
	}
	return d, nil
}

// Close releases the store and disconnects the notifier.
func (d *Dashboard) Close(ctx context.Context) error {
	if d.notifier != nil {
		d.notifier.Close(ctx)
	}
	return d.store.Close()
}

// ready reports readiness of the external dependencies.
func (d *Dashboard) ready() []http.ReadyFunc {
	checks := []http.ReadyFunc{}
	if d.notifier != nil {
		n := d.notifier
		checks = append(checks, func() error {
			if !n.Connected() {
				return errors.New("mqtt broker not connected")
			}
			return nil
		})
	}
	return checks
}

// NewServer assembles the dashboard behind the HTTP API. With the sqlite
// backend and watching enabled, the persisted session is reloaded whenever
// another process changes it.
func (cfg *Config) NewServer(ctx context.Context) (*FleetviewServer, error) {
	d, err := cfg.NewDashboard(ctx)
	if err != nil {
		return nil, err
	}

	var watcher server.Server
	if cfg.SessionOptions.Backend == options.SessionBackendSQLite && cfg.SessionOptions.Watch {
		watcher = storage.NewWatcher(cfg.SessionOptions.Path, 0, func(ctx context.Context) {
			authenticated := d.Service.Restore(ctx)
			log.Info("Session store changed on disk", "authenticated", authenticated)
		})
	}

	serverConfig := &server.Config{
		HttpOptions: cfg.HttpOptions,
		Ready:       d.ready(),
	}

	return &FleetviewServer{
		dashboard:     d,
		serverManager: server.NewManager(serverConfig, d.Service, watcher),
	}, nil
}
