package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/fleetview/internal/fleetview"
	"github.com/autopeer-io/fleetview/pkg/app"
	"github.com/autopeer-io/fleetview/pkg/log"
	"github.com/autopeer-io/fleetview/pkg/options"
)

type FleetviewOptions struct {
	HttpOptions      *options.HttpOptions      `json:"http" mapstructure:"http"`
	MqttOptions      *options.MqttOptions      `json:"mqtt" mapstructure:"mqtt"`
	SessionOptions   *options.SessionOptions   `json:"session" mapstructure:"session"`
	RedisOptions     *options.RedisOptions     `json:"redis" mapstructure:"redis"`
	AuthOptions      *options.AuthOptions      `json:"auth" mapstructure:"auth"`
	TelemetryOptions *options.TelemetryOptions `json:"telemetry" mapstructure:"telemetry"`
	Log              *log.Options              `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*FleetviewOptions)(nil)

func NewFleetviewOptions() *FleetviewOptions {
	return &FleetviewOptions{
		HttpOptions:      options.NewHttpOptions(),
		MqttOptions:      options.NewMqttOptions(),
		SessionOptions:   options.NewSessionOptions(),
		RedisOptions:     options.NewRedisOptions(),
		AuthOptions:      options.NewAuthOptions(),
		TelemetryOptions: options.NewTelemetryOptions(),
		Log:              log.NewOptions(),
	}
}

func (o *FleetviewOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.SessionOptions.AddFlags(fss.FlagSet("session"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.AuthOptions.AddFlags(fss.FlagSet("auth"))
	o.TelemetryOptions.AddFlags(fss.FlagSet("telemetry"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

// Complete turns off file watching for backends that have no file.
func (o *FleetviewOptions) Complete() error {
	if o.SessionOptions.Backend != options.SessionBackendSQLite {
		o.SessionOptions.Watch = false
	}
	return nil
}

func (o *FleetviewOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.SessionOptions.Validate()...)
	if o.SessionOptions.Backend == options.SessionBackendRedis {
		errs = append(errs, o.RedisOptions.Validate()...)
	}
	errs = append(errs, o.AuthOptions.Validate()...)
	errs = append(errs, o.TelemetryOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *FleetviewOptions) Config() (*fleetview.Config, error) {
	return &fleetview.Config{
		HttpOptions:      o.HttpOptions,
		MqttOptions:      o.MqttOptions,
		SessionOptions:   o.SessionOptions,
		RedisOptions:     o.RedisOptions,
		AuthOptions:      o.AuthOptions,
		TelemetryOptions: o.TelemetryOptions,
	}, nil
}
