package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app/options"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
)

func newVehiclesCommand(opts *options.FleetviewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"vehicle", "v"},
		Short:   "List and manage vehicles",
		Long: `List the vehicles visible to the session. Admins see the whole fleet and
may create, update and delete vehicles; users see the vehicles assigned to
them.

The fleet is held in memory: changes made here last for this invocation
only and are not published as fleet events. Run "fleetview serve" for a
long lived fleet.`,
	}

	cmd.AddCommand(
		newVehiclesListCommand(opts),
		newVehiclesCreateCommand(opts),
		newVehiclesUpdateCommand(opts),
		newVehiclesDeleteCommand(opts),
		newVehiclesSummaryCommand(opts),
	)
	return cmd
}

func printVehicles(cmd *cobra.Command, svc *service.Service, output string, vehicles ...model.Vehicle) error {
	if output == outputJSON {
		return printJSON(cmd.OutOrStdout(), vehicles)
	}

	t := newTable("ID", "NAME", "NUMBER", "OWNER", "STATUS")
	for _, v := range vehicles {
		t.AddRow(v.ID, v.Name, v.Number, svc.OwnerName(v), v.Status)
	}
	return printTable(cmd.OutOrStdout(), t)
}

func newVehiclesListCommand(opts *options.FleetviewOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the vehicles visible to the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				vehicles, err := svc.ListVehicles(ctx)
				if err != nil {
					return err
				}
				return printVehicles(cmd, svc, output, vehicles...)
			})
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newVehiclesCreateCommand(opts *options.FleetviewOptions) *cobra.Command {
	var name, number, owner, output string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Add an active vehicle (admin)",
		Example: `  fleetview vehicles create --name "Tesla Model 3" --number MH-12-AB-1234 --assign 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				v, err := svc.CreateVehicle(ctx, name, number, owner)
				if err != nil {
					return err
				}
				return printVehicles(cmd, svc, output, *v)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Vehicle name.")
	cmd.Flags().StringVar(&number, "number", "", "Registration number.")
	cmd.Flags().StringVar(&owner, "assign", "", "ID of the user the vehicle is assigned to.")
	addOutputFlag(cmd, &output)
	return cmd
}

func newVehiclesUpdateCommand(opts *options.FleetviewOptions) *cobra.Command {
	var name, number, owner, status, output string

	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change the name, number, assignment or status of a vehicle (admin)",
		Example: `  fleetview vehicles update 3 --assign 2 --status active`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			var update model.VehicleUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("number") {
				update.Number = &number
			}
			if flags.Changed("assign") {
				update.AssignedUserID = &owner
			}
			if flags.Changed("status") {
				s := model.VehicleStatus(status)
				update.Status = &s
			}
			if update.Empty() {
				return errors.New("nothing to update: set at least one of --name, --number, --assign, --status")
			}

			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				v, err := svc.UpdateVehicle(ctx, args[0], update)
				if err != nil {
					return err
				}
				return printVehicles(cmd, svc, output, *v)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New vehicle name.")
	cmd.Flags().StringVar(&number, "number", "", "New registration number.")
	cmd.Flags().StringVar(&owner, "assign", "", "ID of the user to assign the vehicle to.")
	cmd.Flags().StringVar(&status, "status", "", "New status: active or inactive.")
	addOutputFlag(cmd, &output)
	return cmd
}

func newVehiclesDeleteCommand(opts *options.FleetviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a vehicle (admin)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				if err := svc.DeleteVehicle(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted vehicle %s\n", args[0])
				return err
			})
		},
	}
}

func newVehiclesSummaryCommand(opts *options.FleetviewOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show fleet totals and average speed and battery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				s, err := svc.FleetSummary(ctx)
				if err != nil {
					return err
				}
				if output == outputJSON {
					return printJSON(cmd.OutOrStdout(), s)
				}

				t := newTable("VEHICLES", "ACTIVE", "AVG SPEED", "AVG BATTERY")
				t.AddRow(s.TotalVehicles, s.ActiveVehicles,
					fmt.Sprintf("%d km/h", s.AverageSpeed), fmt.Sprintf("%d%%", s.AverageBattery))
				return printTable(cmd.OutOrStdout(), t)
			})
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newUsersCommand(opts *options.FleetviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the users vehicles can be assigned to (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDashboard(cmd, opts, func(_ context.Context, svc *service.Service) error {
				users, err := svc.Users()
				if err != nil {
					return err
				}

				t := newTable("ID", "NAME", "EMAIL")
				for _, u := range users {
					t.AddRow(u.ID, u.Name, u.Email)
				}
				return printTable(cmd.OutOrStdout(), t)
			})
		},
	}
}
