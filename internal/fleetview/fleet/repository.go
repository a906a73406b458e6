// Package fleet keeps the vehicle collection and the user directory in memory.
package fleet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/pkg/metrics"
)

var _ core.VehicleRepository = (*Repository)(nil)

// IDFunc generates vehicle ids.
type IDFunc func() (string, error)

// Repository is an in-memory VehicleRepository preserving insertion order.
type Repository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.Vehicle
	newID IDFunc
}

type Option func(*Repository)

// WithIDFunc replaces the default time-ordered UUID generator.
func WithIDFunc(fn IDFunc) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithVehicles seeds the repository. Seeds keep their ids and order.
func WithVehicles(vehicles ...model.Vehicle) Option {
	return func(r *Repository) {
		for _, v := range vehicles {
			r.insert(v)
		}
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		byID:  make(map[string]*model.Vehicle),
		newID: uuidV7,
	}
	for _, o := range opts {
		o(r)
	}
	metrics.Vehicles.Set(float64(len(r.order)))
	return r
}

func uuidV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (r *Repository) List(_ context.Context) ([]model.Vehicle, error) {
	return r.filter(func(*model.Vehicle) bool { return true }), nil
}

func (r *Repository) ListAssigned(_ context.Context, userID string) ([]model.Vehicle, error) {
	return r.filter(func(v *model.Vehicle) bool { return v.AssignedUserID == userID }), nil
}

func (r *Repository) Get(_ context.Context, id string) (*model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
	}
	out := *v
	return &out, nil
}

// Create adds an active vehicle. Every field is required after trimming.
func (r *Repository) Create(_ context.Context, name, number, assignedUserID string) (*model.Vehicle, error) {
	v := model.Vehicle{
		Name:           strings.TrimSpace(name),
		Number:         strings.TrimSpace(number),
		AssignedUserID: strings.TrimSpace(assignedUserID),
		Status:         model.VehicleActive,
	}
	if missing := missingFields(v); len(missing) > 0 {
		return nil, core.NewValidationError(missing...)
	}

	id, err := r.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vehicle id: %w", err)
	}
	v.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[id]; dup {
		return nil, fmt.Errorf("vehicle id %q already in use", id)
	}
	r.insert(v)
	metrics.Vehicles.Set(float64(len(r.order)))

	out := v
	return &out, nil
}

// Update merges the provided fields into the vehicle. The id never changes.
func (r *Repository) Update(_ context.Context, id string, update model.VehicleUpdate) (*model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
	}

	next := *cur
	if update.Name != nil {
		next.Name = strings.TrimSpace(*update.Name)
	}
	if update.Number != nil {
		next.Number = strings.TrimSpace(*update.Number)
	}
	if update.AssignedUserID != nil {
		next.AssignedUserID = strings.TrimSpace(*update.AssignedUserID)
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, core.NewValidationError("status")
		}
		next.Status = *update.Status
	}
	if missing := missingFields(next); len(missing) > 0 {
		return nil, core.NewValidationError(missing...)
	}

	*cur = next
	out := next
	return &out, nil
}

// Delete removes the vehicle and returns it. Deleting an unknown id is ErrNotFound.
func (r *Repository) Delete(_ context.Context, id string) (*model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
	}

	delete(r.byID, id)
	for i, vid := range r.order {
		if vid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	metrics.Vehicles.Set(float64(len(r.order)))

	out := *v
	return &out, nil
}

// insert requires the write lock, or exclusive access during construction.
func (r *Repository) insert(v model.Vehicle) {
	stored := v
	r.byID[v.ID] = &stored
	r.order = append(r.order, v.ID)
}

func (r *Repository) filter(keep func(*model.Vehicle) bool) []model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Vehicle, 0, len(r.order))
	for _, id := range r.order {
		if v := r.byID[id]; keep(v) {
			out = append(out, *v)
		}
	}
	return out
}

func missingFields(v model.Vehicle) []string {
	var missing []string
	if v.Name == "" {
		missing = append(missing, "name")
	}
	if v.Number == "" {
		missing = append(missing, "number")
	}
	if v.AssignedUserID == "" {
		missing = append(missing, "assignedUserId")
	}
	return missing
}
