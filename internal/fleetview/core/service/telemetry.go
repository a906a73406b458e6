package service

import (
	"context"
	"fmt"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/telemetry"
)

// VehicleTelemetry returns the detail view of a vehicle visible to the session.
func (s *Service) VehicleTelemetry(ctx context.Context, id string) (*model.VehicleTelemetry, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.telemetry.Snapshot(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry of %s: %w", v.ID, err)
	}
	hist, err := s.telemetry.History(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry history of %s: %w", v.ID, err)
	}

	return &model.VehicleTelemetry{
		Vehicle:     *v,
		OwnerName:   s.OwnerName(*v),
		Snapshot:    *snap,
		BatteryTier: telemetry.BatteryTier(snap.Battery),
		History:     *hist,
	}, nil
}

// FleetSummary aggregates the vehicles visible to the session.
func (s *Service) FleetSummary(ctx context.Context) (*model.FleetSummary, error) {
	vehicles, err := s.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}

	readings := make([]model.TelemetrySnapshot, 0, len(vehicles))
	for _, v := range vehicles {
		snap, err := s.telemetry.Snapshot(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read telemetry of %s: %w", v.ID, err)
		}
		readings = append(readings, *snap)
	}

	summary := &model.FleetSummary{
		TotalVehicles:  len(vehicles),
		ActiveVehicles: telemetry.ActiveCount(vehicles),
		AverageSpeed:   telemetry.AverageSpeed(readings),
		AverageBattery: telemetry.AverageBattery(readings),
	}
	if cur := s.sessions.Current(); cur != nil && cur.User.IsAdmin() {
		summary.TotalUsers = len(s.users.List())
	}
	return summary, nil
}
