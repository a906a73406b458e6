// Package app assembles a cobra command tree whose flags can also be set
// from a YAML config file and FLEETVIEW_* environment variables.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/fleetview/pkg/log"
)

// Option customizes an App.
type Option func(*App)

// App is a command line application.
type App struct {
	name        string
	shortDesc   string
	description string
	envPrefix   string

	options  NamedFlagSetOptions
	logOpts  *log.Options
	commands []*cobra.Command

	configFile string
	viper      *viper.Viper
	cmd        *cobra.Command
}

func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

// WithOptions registers the options that flags, config and environment are decoded into.
func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) { a.options = opts }
}

// WithLogOptions tells the App which log options to initialize the global logger from.
func WithLogOptions(opts *log.Options) Option {
	return func(a *App) { a.logOpts = opts }
}

// WithCommands adds subcommands. They share the root's flags and configuration.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(a *App) { a.commands = append(a.commands, cmds...) }
}

func NewApp(name, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
		envPrefix: strings.ToUpper(strings.ReplaceAll(name, "-", "_")),
		viper:     viper.New(),
	}
	for _, o := range opts {
		o(a)
	}

	a.buildCommand()
	return a
}

// Command exposes the root command, mainly for tests.
func (a *App) Command() *cobra.Command { return a.cmd }

// Run executes the command tree and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:               a.name,
		Short:             a.shortDesc,
		Long:              a.description,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "",
		fmt.Sprintf("Path to a YAML config file. Environment variables prefixed with %s_ override it.", a.envPrefix))

	var fss cliflag.NamedFlagSets
	if a.options != nil {
		fss = a.options.Flags()
		for _, f := range fss.FlagSets {
			cmd.PersistentFlags().AddFlagSet(f)
		}
	}

	cmd.AddCommand(a.commands...)

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, fss, cols)

	a.cmd = cmd
}

// load merges flags, config file and environment into the options, then
// completes and validates them and initializes logging.
func (a *App) load(cmd *cobra.Command, _ []string) error {
	if a.options == nil {
		return nil
	}

	v := a.viper
	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", a.configFile, err)
		}
	}

	v.SetEnvPrefix(a.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := a.options.Complete(); err != nil {
		return err
	}
	if err := a.options.Validate(); err != nil {
		return err
	}

	if a.logOpts != nil {
		log.Init(a.logOpts)
	}
	if a.configFile != "" {
		log.Debug("Loaded configuration", "file", v.ConfigFileUsed())
	}
	return nil
}
