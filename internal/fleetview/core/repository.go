package core

import (
	"context"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// VehicleRepository owns the fleet collection.
type VehicleRepository interface {
	// List returns all vehicles in insertion order.
	List(ctx context.Context) ([]model.Vehicle, error)

	// ListAssigned returns the vehicles assigned to userID in insertion order.
	ListAssigned(ctx context.Context, userID string) ([]model.Vehicle, error)

	Get(ctx context.Context, id string) (*model.Vehicle, error)
	Create(ctx context.Context, name, number, assignedUserID string) (*model.Vehicle, error)
	Update(ctx context.Context, id string, update model.VehicleUpdate) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) (*model.Vehicle, error)
}

// UserDirectory resolves assignable users.
type UserDirectory interface {
	List() []model.DirectoryEntry

	// ResolveOwnerName returns the user's display name, or "Unknown".
	ResolveOwnerName(userID string) string
}

// SessionStore is the durable key-value store holding the session.
type SessionStore interface {
	// Get returns the value of key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, entries map[string]string) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
