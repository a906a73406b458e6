package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app/options"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
)

func newLoginCommand(opts *options.FleetviewOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		Long: `Log in with an email and password. Without --password the password is
read from the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given: pass --password or pipe it on stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				s, err := svc.Login(ctx, email, password)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), home %s\n",
					s.User.Email, s.User.Role, model.HomeView(s.User.Role).Path())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password.")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(opts *options.FleetviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDashboard(cmd, opts, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Logout(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return err
			})
		},
	}
}

func newWhoamiCommand(opts *options.FleetviewOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return withDashboard(cmd, opts, func(_ context.Context, svc *service.Service) error {
				s, err := svc.Session()
				if err != nil {
					return err
				}
				if output == outputJSON {
					return printJSON(cmd.OutOrStdout(), s.User)
				}

				t := newTable("ID", "EMAIL", "ROLE", "HOME")
				t.AddRow(s.User.ID, s.User.Email, s.User.Role, model.HomeView(s.User.Role).Path())
				return printTable(cmd.OutOrStdout(), t)
			})
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newRouteCommand(opts *options.FleetviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route PATH",
		Short: "Show where the current session lands when opening PATH",
		Example: `  fleetview route /admin
  fleetview route /vehicle/1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd, opts, func(_ context.Context, svc *service.Service) error {
				d := svc.Navigate(args[0])
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", d.Outcome, d.Target.Path(), d.Target.Name)
				return err
			})
		},
	}
}
