// Package telemetry derives fleet aggregates from vehicle readings and
// simulates readings where no live feed exists.
package telemetry

import (
	"math"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// Battery tier thresholds, in percent.
const (
	healthyAbove = 70
	warningAbove = 30
)

// AverageSpeed is the mean speed rounded half up, or 0 for no readings.
func AverageSpeed(readings []model.TelemetrySnapshot) int {
	return roundedMean(readings, func(s model.TelemetrySnapshot) float64 { return s.Speed })
}

// AverageBattery is the mean battery level rounded half up, or 0 for no readings.
func AverageBattery(readings []model.TelemetrySnapshot) int {
	return roundedMean(readings, func(s model.TelemetrySnapshot) float64 { return s.Battery })
}

// ActiveCount counts vehicles with status active.
func ActiveCount(vehicles []model.Vehicle) int {
	n := 0
	for _, v := range vehicles {
		if v.Status == model.VehicleActive {
			n++
		}
	}
	return n
}

// BatteryTier: healthy above 70, warning above 30, critical otherwise.
func BatteryTier(battery float64) model.BatteryTier {
	switch {
	case battery > healthyAbove:
		return model.BatteryHealthy
	case battery > warningAbove:
		return model.BatteryWarning
	default:
		return model.BatteryCritical
	}
}

func roundedMean(readings []model.TelemetrySnapshot, value func(model.TelemetrySnapshot) float64) int {
	if len(readings) == 0 {
		return 0
	}

	var sum float64
	for _, r := range readings {
		sum += value(r)
	}
	return int(math.Floor(sum/float64(len(readings)) + 0.5))
}
