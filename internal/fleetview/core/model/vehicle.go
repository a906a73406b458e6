package model

import "time"

type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
)

func (s VehicleStatus) Valid() bool {
	return s == VehicleActive || s == VehicleInactive
}

// Vehicle is a fleet member and its assignment.
type Vehicle struct {
	// ID is assigned by the repository and never changes.
	ID string `json:"id"`

	Name string `json:"name"`

	// Number is the registration plate, e.g. "MH-12-AB-1234".
	Number string `json:"number"`

	// AssignedUserID may reference a user that no longer exists.
	AssignedUserID string `json:"assignedUserId"`

	Status VehicleStatus `json:"status"`
}

// VehicleUpdate is a partial update. Nil fields are left unchanged.
type VehicleUpdate struct {
	Name           *string        `json:"name,omitempty"`
	Number         *string        `json:"number,omitempty"`
	AssignedUserID *string        `json:"assignedUserId,omitempty"`
	Status         *VehicleStatus `json:"status,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u VehicleUpdate) Empty() bool {
	return u.Name == nil && u.Number == nil && u.AssignedUserID == nil && u.Status == nil
}

type FleetEventType string

const (
	VehicleCreated FleetEventType = "vehicle.created"
	VehicleUpdated FleetEventType = "vehicle.updated"
	VehicleDeleted FleetEventType = "vehicle.deleted"
)

// FleetEvent describes a change to the fleet.
type FleetEvent struct {
	Type       FleetEventType `json:"type"`
	Vehicle    Vehicle        `json:"vehicle"`
	Actor      string         `json:"actor"`
	OccurredAt time.Time      `json:"occurredAt"`
}
