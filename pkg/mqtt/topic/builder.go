// Package topic builds the MQTT topic names fleetview publishes on.
package topic

import "fmt"

const (
	// SuffixVehicle carries per-vehicle fleet events.
	// Structure: {root}/fleet/vehicle/{vehicleID}
	SuffixVehicle = "fleet/vehicle"

	// Wildcard is the single-level MQTT wildcard.
	Wildcard = "+"
)

// Builder constructs topic strings under a common root.
type Builder struct {
	root string
}

func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Vehicle returns the event topic of one vehicle.
func (b *Builder) Vehicle(vehicleID string) string {
	return b.build(SuffixVehicle, vehicleID)
}

// VehicleWildcard matches the event topics of all vehicles.
func (b *Builder) VehicleWildcard() string {
	return b.build(SuffixVehicle, Wildcard)
}

func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
