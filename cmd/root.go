package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"solarops/internal/cli"
)

// Exit codes for CLI commands. Semantic codes let scripts distinguish
// "log in first" from a genuine failure.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates a login attempt was rejected.
	ExitCodeAuthFailed = 3
)

// rootCmd is the entry point of the solarops CLI.
var rootCmd = &cobra.Command{
	Use:   "solarops",
	Short: "Administer your solar asset monitoring platform",
	Long: `solarops is the command-line companion of the solar asset monitoring
platform: manage user accounts, browse the plant hierarchy, and keep an
authenticated session to the monitoring API.`,
	// Errors are rendered by Execute with semantic exit codes; the
	// usage text would only drown them out.
	SilenceUsage: true,
}

// SetVersion injects the build version into the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current application version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the CLI and exits with a semantic exit code on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "solarops version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps the error taxonomy onto exit codes.
func getExitCode(err error) int {
	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRecoverPasswordCmd())
	rootCmd.AddCommand(newResetPasswordCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newAssetCmd())
	rootCmd.AddCommand(newConsoleCmd())
}
