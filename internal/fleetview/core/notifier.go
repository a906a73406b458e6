package core

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// FleetNotifier publishes fleet changes to interested parties.
type FleetNotifier interface {
	Notify(ctx context.Context, event *model.FleetEvent) error
}
