package cli

import (
	"io"

	"github.com/spf13/cobra"

	"solarops/internal/config"
)

// CommandFlags holds the common flag values shared by solarops commands
// that talk to the monitoring API.
type CommandFlags struct {
	// OutputFormat selects the output format (table, wide, json, yaml, template).
	OutputFormat string
	// Template is the Go template used with --output template.
	Template string
	// NoHeaders suppresses the header row in table output.
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output.
	Quiet bool
	// ConfigPath overrides the configuration directory.
	ConfigPath string
	// Endpoint overrides the API endpoint URL.
	Endpoint string
	// LogLevel overrides the configured log level.
	LogLevel string
}

// RegisterCommonFlags registers the flags shared by most solarops
// commands, keeping flag naming and help text consistent.
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml, template)")
	cmd.PersistentFlags().StringVar(&flags.Template, "template", "", "Go template for --output template (sprig functions available)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	RegisterConnectionFlags(cmd, flags)
}

// RegisterConnectionFlags registers only the connection-related flags,
// for commands that produce no formatted output.
func RegisterConnectionFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.Endpoint, "endpoint", "", "Monitoring API endpoint URL (env: "+config.EndpointEnvVar+")")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// Printer builds a Printer from the flag values.
func (f *CommandFlags) Printer(out io.Writer) (*Printer, error) {
	format := OutputFormat(f.OutputFormat)
	if err := ValidateOutputFormat(format); err != nil {
		return nil, err
	}
	return &Printer{
		Format:    format,
		NoHeaders: f.NoHeaders,
		Template:  f.Template,
		Out:       out,
	}, nil
}
