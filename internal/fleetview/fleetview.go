// Package fleetview assembles the dashboard from its adapters.
package fleetview

import (
	"context"
	"time"

	"github.com/autopeer-io/fleetview/internal/fleetview/server"
	"github.com/autopeer-io/fleetview/pkg/log"
)

const closeTimeout = 5 * time.Second

// FleetviewServer is the long running dashboard API.
type FleetviewServer struct {
	dashboard     *Dashboard
	serverManager *server.Manager
}

// Run serves until ctx is done and then releases the dashboard's resources.
func (s *FleetviewServer) Run(ctx context.Context) error {
	log.Info("Starting fleetview server")
	err := s.serverManager.Start(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if cerr := s.dashboard.Close(closeCtx); cerr != nil {
		log.Error(cerr, "Failed to close dashboard")
	}
	return err
}
