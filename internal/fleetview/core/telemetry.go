package core

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// TelemetryProducer supplies readings for a vehicle on demand.
type TelemetryProducer interface {
	Snapshot(ctx context.Context, vehicleID string) (*model.TelemetrySnapshot, error)
	History(ctx context.Context, vehicleID string) (*model.TelemetryHistory, error)
}
