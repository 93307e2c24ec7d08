package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"solarops/internal/cli"
	"solarops/pkg/solar"
)

// statusReport is the structured form of `solarops status`.
type statusReport struct {
	Endpoint      string              `json:"endpoint" yaml:"endpoint"`
	Authenticated bool                `json:"authenticated" yaml:"authenticated"`
	HasToken      bool                `json:"has_token" yaml:"has_token"`
	TokenStoredAt string              `json:"token_stored_at,omitempty" yaml:"token_stored_at,omitempty"`
	User          *solar.User         `json:"user,omitempty" yaml:"user,omitempty"`
	Permissions   *solar.PermissionSet `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// newStatusCmd creates the command showing the local session state and,
// when authenticated, the live permission set.
func newStatusCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		Long: `Shows the configured endpoint, whether a token is stored, and whether
the session is authenticated. For an authenticated session the current
user and permissions are fetched from the API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			authed, err := startSession(ctx, a)
			if err != nil {
				return err
			}

			st := a.Session.Status()
			report := statusReport{
				Endpoint:      st.Endpoint,
				Authenticated: st.Authenticated,
				HasToken:      st.HasToken,
				User:          st.User,
			}
			if !st.TokenStoredAt.IsZero() {
				report.TokenStoredAt = cli.FormatTime(st.TokenStoredAt)
			}

			if authed {
				// The user is already resolved; fetch the permission
				// set and a fresh profile in parallel.
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					perms, permErr := a.Users.CheckPermissions(gctx)
					if permErr != nil {
						return permErr
					}
					report.Permissions = perms
					return nil
				})
				g.Go(func() error {
					me, meErr := a.Users.Me(gctx)
					if meErr != nil {
						return meErr
					}
					report.User = me
					return nil
				})
				if err := g.Wait(); err != nil {
					return wrapRemoteError(err, a.Config.Endpoint)
				}
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(report)
			}

			fmt.Println(cli.FormatHeading("Session"))
			fmt.Println(cli.Bullet("Endpoint", report.Endpoint))
			fmt.Println(cli.Bullet("State", cli.StatusBadge(report.Authenticated)))
			fmt.Println(cli.Bullet("Token stored", cli.FormatBool(report.HasToken)))
			if report.TokenStoredAt != "" {
				fmt.Println(cli.Bullet("Stored at", report.TokenStoredAt))
			}
			if report.User != nil {
				fmt.Println(cli.Bullet("User", report.User.Email))
				fmt.Println(cli.Bullet("Role", cli.TitleCase(string(report.User.Role))))
			}
			if report.Permissions != nil {
				var granted []string
				for _, p := range []string{solar.PermissionManageUsers, solar.PermissionManageAssets, solar.PermissionViewReports} {
					if report.Permissions.Has(p) {
						granted = append(granted, p)
					}
				}
				if len(granted) == 0 {
					granted = []string{"none"}
				}
				fmt.Println(cli.Bullet("Permissions", strings.Join(granted, ", ")))
			}
			return nil
		},
	}

	cli.RegisterCommonFlags(cmd, flags)
	return cmd
}
