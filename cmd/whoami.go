package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solarops/internal/cli"
)

// newWhoamiCmd creates the command printing the authenticated user.
func newWhoamiCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requireAuth(ctx, a); err != nil {
				return err
			}

			user := a.Session.CurrentUser()
			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(user)
			}

			fmt.Println(cli.FormatHeading("Profile"))
			fmt.Println(cli.Bullet("Email", user.Email))
			fmt.Println(cli.Bullet("Role", cli.TitleCase(string(user.Role))))
			fmt.Println(cli.Bullet("Status", cli.TitleCase(string(user.Status))))
			fmt.Println(cli.Bullet("Department", cli.Dash(user.Department)))
			fmt.Println(cli.Bullet("Active", cli.FormatBool(user.IsActive)))
			return nil
		},
	}

	cli.RegisterCommonFlags(cmd, flags)
	return cmd
}
