package service

import (
	"context"
	"fmt"
	"time"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/pkg/metrics"
)

// ListVehicles returns every vehicle to admins and the assigned ones to users.
func (s *Service) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	cur, err := s.Session()
	if err != nil {
		return nil, err
	}

	if cur.User.IsAdmin() {
		return s.vehicles.List(ctx)
	}
	return s.vehicles.ListAssigned(ctx, cur.User.ID)
}

// GetVehicle returns a vehicle visible to the session. Vehicles assigned
// to someone else are reported as not found to non-admins.
func (s *Service) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	cur, err := s.Session()
	if err != nil {
		return nil, err
	}

	v, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.User.IsAdmin() && v.AssignedUserID != cur.User.ID {
		return nil, fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Service) CreateVehicle(ctx context.Context, name, number, assignedUserID string) (*model.Vehicle, error) {
	cur, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}

	v, err := s.vehicles.Create(ctx, name, number, assignedUserID)
	observeMutation("create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle created", "vehicle", v.ID, "assignedTo", v.AssignedUserID, "actor", cur.User.ID)
	s.notify(ctx, model.VehicleCreated, v, cur)
	return v, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id string, update model.VehicleUpdate) (*model.Vehicle, error) {
	cur, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		// At least one of them must be given.
		return nil, core.NewValidationError("name", "number", "assignedUserId", "status")
	}

	v, err := s.vehicles.Update(ctx, id, update)
	observeMutation("update", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle updated", "vehicle", v.ID, "actor", cur.User.ID)
	s.notify(ctx, model.VehicleUpdated, v, cur)
	return v, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id string) error {
	cur, err := s.requireAdmin()
	if err != nil {
		return err
	}

	v, err := s.vehicles.Delete(ctx, id)
	observeMutation("delete", err)
	if err != nil {
		return err
	}

	s.logger.Info("Vehicle deleted", "vehicle", v.ID, "actor", cur.User.ID)
	s.notify(ctx, model.VehicleDeleted, v, cur)
	return nil
}

// Users lists the assignable users. Admin only.
func (s *Service) Users() ([]model.DirectoryEntry, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.users.List(), nil
}

// OwnerName resolves the display name of a vehicle's assignee.
func (s *Service) OwnerName(v model.Vehicle) string {
	return s.users.ResolveOwnerName(v.AssignedUserID)
}

// notify publishes a fleet event. Failures are logged and never undo the change.
func (s *Service) notify(ctx context.Context, typ model.FleetEventType, v *model.Vehicle, actor *model.Session) {
	event := &model.FleetEvent{
		Type:       typ,
		Vehicle:    *v,
		Actor:      actor.User.ID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		metrics.NotifyFailures.Inc()
		s.logger.Error(err, "Failed to publish fleet event", "type", typ, "vehicle", v.ID)
	}
}

func observeMutation(op string, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	metrics.FleetMutations.WithLabelValues(op, result).Inc()
}
