package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
	"github.com/autopeer-io/fleetview/internal/fleetview/server/http"
	"github.com/autopeer-io/fleetview/pkg/log"
)

// Server is a long running component started by the Manager.
type Server interface {
	Start(ctx context.Context) error
}

// Manager runs the API server and any background servers together.
type Manager struct {
	servers []Server
}

// NewManager builds the HTTP API server. extra servers run alongside it.
func NewManager(cfg *Config, svc *service.Service, extra ...Server) *Manager {
	servers := []Server{http.NewServer(cfg.HttpOptions, svc, cfg.Ready...)}
	for _, s := range extra {
		if s != nil {
			servers = append(servers, s)
		}
	}
	return &Manager{servers: servers}
}

// Start runs every server and returns when one fails or ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m.servers {
		g.Go(func() error {
			return s.Start(ctx)
		})
	}

	log.Info("All servers starting", "count", len(m.servers))
	return g.Wait()
}
