package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"solarops/internal/cli"
)

// newLogoutCmd creates the command clearing the stored session.
func newLogoutCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored token",
		Long: `Clears the stored access token. Logging out while already signed out
is not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if _, err := startSession(ctx, a); err != nil {
				return err
			}

			if err := a.Session.Logout(ctx); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Signed out"))
			return nil
		},
	}

	cli.RegisterConnectionFlags(cmd, flags)
	return cmd
}
