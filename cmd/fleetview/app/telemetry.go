package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app/options"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
)

func newTelemetryCommand(opts *options.FleetviewOptions) *cobra.Command {
	var (
		output  string
		history bool
	)

	cmd := &cobra.Command{
		Use:   "telemetry ID",
		Short: "Show the current reading and hourly history of a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				vt, err := svc.VehicleTelemetry(ctx, args[0])
				if err != nil {
					return err
				}
				if output == outputJSON {
					return printJSON(cmd.OutOrStdout(), vt)
				}

				s := vt.Snapshot
				t := newTable("VEHICLE", "OWNER", "SPEED", "BATTERY", "TEMP", "LOCATION", "GPS")
				t.AddRow(
					fmt.Sprintf("%s (%s)", vt.Vehicle.Name, vt.Vehicle.Number),
					vt.OwnerName,
					fmt.Sprintf("%.0f km/h", s.Speed),
					fmt.Sprintf("%.0f%% %s", s.Battery, vt.BatteryTier),
					fmt.Sprintf("%.0f°C", s.Temperature),
					s.Location,
					fmt.Sprintf("%.4f, %.4f", s.GPS.Lat, s.GPS.Lng),
				)
				if err := printTable(cmd.OutOrStdout(), t); err != nil {
					return err
				}
				if !history {
					return nil
				}

				h := newTable("HOUR", "SPEED", "BATTERY", "TEMP")
				for i := range vt.History.Speed {
					h.AddRow(
						vt.History.Speed[i].Timestamp.Format("01-02 15:04"),
						fmt.Sprintf("%.0f", vt.History.Speed[i].Value),
						fmt.Sprintf("%.0f", vt.History.Battery[i].Value),
						fmt.Sprintf("%.0f", vt.History.Temperature[i].Value),
					)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				return printTable(cmd.OutOrStdout(), h)
			})
		},
	}

	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&history, "history", false, "Also print the hourly history.")
	return cmd
}
