package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"solarops/internal/app"
	"solarops/internal/cli"
	"solarops/internal/config"
	"solarops/internal/console"
)

// newConsoleCmd creates the interactive console command.
func newConsoleCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:     "console",
		Aliases: []string{"repl"},
		Short:   "Start the interactive admin console",
		Long: `Starts an interactive console with screen-based navigation. The session
is restored from the stored token; commands that need authentication
redirect to the login screen instead of failing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.ConfigPath)
			if err != nil {
				return err
			}
			if flags.Endpoint != "" {
				cfg.Endpoint = flags.Endpoint
			}
			if flags.LogLevel != "" {
				cfg.LogLevel = flags.LogLevel
			}

			nav := console.NewNavigator()
			a, err := app.New(app.Options{
				Config:           cfg,
				Navigator:        nav,
				WatchCredentials: true,
			})
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return console.New(a, nav).Run(ctx)
		},
	}

	cli.RegisterConnectionFlags(cmd, flags)
	return cmd
}
