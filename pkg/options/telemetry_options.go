package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*TelemetryOptions)(nil)

// TelemetryOptions configures the simulated telemetry source.
type TelemetryOptions struct {
	// HistoryWindow is the number of hourly samples per metric.
	HistoryWindow int `json:"history-window" mapstructure:"history-window"`

	// Seed makes simulated readings reproducible. Zero picks a per-process seed.
	Seed uint64 `json:"seed" mapstructure:"seed"`
}

func NewTelemetryOptions() *TelemetryOptions {
	return &TelemetryOptions{HistoryWindow: 24}
}

func (o *TelemetryOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}
	if o.HistoryWindow < 1 || o.HistoryWindow > 168 {
		errs = append(errs, fmt.Errorf("--telemetry.history-window must be within 1..168, got %d", o.HistoryWindow))
	}
	return errs
}

func (o *TelemetryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.HistoryWindow, "telemetry.history-window", o.HistoryWindow, "Number of hourly history samples per metric.")
	fs.Uint64Var(&o.Seed, "telemetry.seed", o.Seed, "Seed for simulated telemetry (0 for random).")
}
