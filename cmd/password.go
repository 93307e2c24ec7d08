package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solarops/internal/cli"
)

// newRecoverPasswordCmd creates the command requesting a recovery email.
func newRecoverPasswordCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "recover-password <email>",
		Short: "Request a password recovery email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			msg, err := a.Auth.RecoverPassword(cmd.Context(), args[0])
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(msg.Message))
			return nil
		},
	}

	cli.RegisterConnectionFlags(cmd, flags)
	return cmd
}

// newResetPasswordCmd creates the command completing a recovery flow.
func newResetPasswordCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	var token, newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a password with a recovery token",
		Long:  `Completes a password recovery using the token from the recovery email.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("--token is required")
			}
			if newPassword == "" {
				return errors.New("--new-password is required")
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			msg, err := a.Auth.ResetPassword(cmd.Context(), token, newPassword)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(msg.Message))
			return nil
		},
	}

	cli.RegisterConnectionFlags(cmd, flags)
	cmd.Flags().StringVar(&token, "token", "", "Recovery token from the email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")
	return cmd
}
