// Package notifier delivers fleet change events outside the process.
package notifier

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/pkg/log"
)

var _ core.FleetNotifier = Nop{}

// Nop drops events, logging them at debug level.
type Nop struct{}

func (Nop) Notify(_ context.Context, event *model.FleetEvent) error {
	log.Debug("Fleet event", "type", event.Type, "vehicle", event.Vehicle.ID)
	return nil
}
