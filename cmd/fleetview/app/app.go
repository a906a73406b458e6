package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app/options"
	"github.com/autopeer-io/fleetview/internal/fleetview"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
	"github.com/autopeer-io/fleetview/pkg/app"
	"github.com/autopeer-io/fleetview/pkg/log"
)

const (
	commandName = "fleetview"
	commandDesc = `fleetview is the fleet monitoring dashboard.

Users log in, list the vehicles assigned to them (admins see and manage the
whole fleet) and inspect per-vehicle telemetry. The session survives restarts
in the configured session store. "fleetview serve" exposes the same
operations as a JSON API.`
)

func NewApp() *app.App {
	opts := options.NewFleetviewOptions()
	return app.NewApp(
		commandName,
		"Fleet monitoring dashboard",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithLogOptions(opts.Log),
		app.WithCommands(
			newServeCommand(opts),
			newLoginCommand(opts),
			newLogoutCommand(opts),
			newWhoamiCommand(opts),
			newRouteCommand(opts),
			newVehiclesCommand(opts),
			newTelemetryCommand(opts),
			newUsersCommand(opts),
		),
	)
}

func newServeCommand(opts *options.FleetviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ctx := genericapiserver.SetupSignalContext()

			cfg, err := opts.Config()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			server, err := cfg.NewServer(ctx)
			if err != nil {
				return fmt.Errorf("failed to create fleetview server: %w", err)
			}

			return server.Run(ctx)
		},
	}
}

// oneShotConfig is the configuration of a single CLI invocation. Its fleet is
// discarded on exit, so fleet events are not published.
func oneShotConfig(opts *options.FleetviewOptions) (*fleetview.Config, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	mqtt := *cfg.MqttOptions
	mqtt.Enabled = false
	cfg.MqttOptions = &mqtt
	return cfg, nil
}

// withDashboard runs fn against a dashboard restored from the session store.
func withDashboard(cmd *cobra.Command, opts *options.FleetviewOptions, fn func(context.Context, *service.Service) error) error {
	ctx := cmd.Context()

	cfg, err := oneShotConfig(opts)
	if err != nil {
		return err
	}

	d, err := cfg.NewDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(ctx); err != nil {
			log.Error(err, "Failed to close dashboard")
		}
	}()

	return fn(ctx, d.Service)
}
