package app

import cliflag "k8s.io/component-base/cli/flag"

// NamedFlagSetOptions is implemented by the top-level options of a command.
type NamedFlagSetOptions interface {
	// Flags returns the options grouped into named flag sections.
	Flags() cliflag.NamedFlagSets

	// Complete fills in derived fields after flags and config are loaded.
	Complete() error

	// Validate reports invalid settings, aggregated into one error.
	Validate() error
}
