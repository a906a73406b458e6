package model

import "time"

type GPS struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TelemetrySnapshot is the current reading of one vehicle.
type TelemetrySnapshot struct {
	VehicleID   string    `json:"vehicleId"`
	Speed       float64   `json:"speed"`       // km/h
	Battery     float64   `json:"battery"`     // percent, 0..100
	Temperature float64   `json:"temperature"` // °C
	Location    string    `json:"location"`
	GPS         GPS       `json:"gps"`
	ObservedAt  time.Time `json:"observedAt"`
}

type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TelemetryHistory holds hourly samples per metric, oldest first.
type TelemetryHistory struct {
	Speed       []Sample `json:"speed"`
	Battery     []Sample `json:"battery"`
	Temperature []Sample `json:"temperature"`
}

// BatteryTier classifies a battery level for display.
type BatteryTier string

const (
	BatteryHealthy  BatteryTier = "healthy"
	BatteryWarning  BatteryTier = "warning"
	BatteryCritical BatteryTier = "critical"
)

// VehicleTelemetry is the detail view of one vehicle.
type VehicleTelemetry struct {
	Vehicle     Vehicle           `json:"vehicle"`
	OwnerName   string            `json:"ownerName"`
	Snapshot    TelemetrySnapshot `json:"snapshot"`
	BatteryTier BatteryTier       `json:"batteryTier"`
	History     TelemetryHistory  `json:"history"`
}

// FleetSummary aggregates the vehicles visible to a session.
type FleetSummary struct {
	TotalVehicles  int `json:"totalVehicles"`
	ActiveVehicles int `json:"activeVehicles"`
	AverageSpeed   int `json:"averageSpeed"`
	AverageBattery int `json:"averageBattery"`

	// TotalUsers is only reported to admins.
	TotalUsers int `json:"totalUsers,omitempty"`
}
