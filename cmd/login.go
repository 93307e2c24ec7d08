package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"solarops/internal/cli"
)

// newLoginCmd creates the command performing the password login flow.
func newLoginCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the monitoring API",
		Long: `Exchanges your email and password for an access token, validates it,
and stores it for subsequent commands. Credentials are prompted
interactively unless supplied via flags.`,
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

			if email == "" {
				line, err := readline.Line("Email: ")
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if email == "" {
				return errors.New("email must not be empty")
			}
			if password == "" {
				pw, err := readline.Password("Password: ")
				if err != nil {
					return err
				}
				password = string(pw)
			}

			var userEmail string
			err = cli.WithSpinner(flags.Quiet, "Signing in...", func() error {
				user, loginErr := a.Session.Login(ctx, email, password)
				if loginErr != nil {
					return loginErr
				}
				userEmail = user.Email
				return nil
			})
			if err != nil {
				return &cli.AuthFailedError{
					Endpoint: a.Config.Endpoint,
					Reason:   wrapRemoteError(err, a.Config.Endpoint),
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Signed in as %s", userEmail)))
			return nil
		},
	}

	cli.RegisterConnectionFlags(cmd, flags)
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	return cmd
}
