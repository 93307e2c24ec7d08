package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"solarops/internal/cli"
	"solarops/pkg/solar"
)

// newUserCmd creates the user administration command group.
func newUserCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
		Long:  `List, create, update and delete the platform's user accounts.`,
	}
	cli.RegisterCommonFlags(cmd, flags)

	cmd.AddCommand(newUserListCmd(flags))
	cmd.AddCommand(newUserGetCmd(flags))
	cmd.AddCommand(newUserCreateCmd(flags))
	cmd.AddCommand(newUserUpdateCmd(flags))
	cmd.AddCommand(newUserDeleteCmd(flags))
	cmd.AddCommand(newUserRestoreCmd(flags))
	cmd.AddCommand(newUserRoleCmd(flags))
	cmd.AddCommand(newUserResetPasswordCmd(flags))
	cmd.AddCommand(newUserChangePasswordCmd(flags))
	cmd.AddCommand(newUserStatsCmd(flags))
	cmd.AddCommand(newUserRolesCmd(flags))
	return cmd
}

// parseUserID parses the positional user ID argument.
func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID %q", arg)
	}
	return id, nil
}

func userRow(u solar.User, wide bool) []string {
	row := []string{
		strconv.Itoa(u.ID),
		u.Email,
		cli.TitleCase(string(u.Role)),
		cli.TitleCase(string(u.Status)),
		cli.Dash(u.Department),
	}
	if wide {
		row = append(row, cli.FormatBool(u.IsActive), cli.FormatTime(u.CreatedAt))
	}
	return row
}

func userHeaders(wide bool) []string {
	headers := []string{"id", "email", "role", "status", "department"}
	if wide {
		headers = append(headers, "active", "created")
	}
	return headers
}

func newUserListCmd(flags *cli.CommandFlags) *cobra.Command {
	var params solar.UserListParams
	var role, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			params.Role = solar.UserRole(role)
			params.Status = solar.UserStatus(status)

			var resp *solar.UserListResponse
			err = cli.WithSpinner(flags.Quiet, "Fetching users...", func() error {
				var listErr error
				resp, listErr = a.Users.List(ctx, params)
				return listErr
			})
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(resp)
			}

			rows := make([][]string, 0, len(resp.Data))
			for _, u := range resp.Data {
				rows = append(rows, userRow(u, printer.Wide()))
			}
			printer.PrintTable(userHeaders(printer.Wide()), rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Skip, "skip", 0, "Number of results to skip")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Maximum number of results")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search by email")
	cmd.Flags().StringVar(&params.Department, "department", "", "Filter by department")
	return cmd
}

func newUserGetCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			user, err := a.Users.Get(ctx, id)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(user)
			}
			printer.PrintTable(userHeaders(true), [][]string{userRow(*user, true)})
			return nil
		},
	}
}

func newUserCreateCmd(flags *cli.CommandFlags) *cobra.Command {
	var body solar.UserCreate
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if body.Email == "" || body.Password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			body.Role = solar.UserRole(role)
			resp, err := a.Users.Create(ctx, body)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created user %s (ID %d)", resp.Data.Email, resp.Data.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&body.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&body.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(solar.RoleUser), "Account role")
	cmd.Flags().StringVar(&body.Department, "department", "", "Department")
	return cmd
}

func newUserUpdateCmd(flags *cli.CommandFlags) *cobra.Command {
	var email, department string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user's profile fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			body := solar.UserUpdate{}
			if cmd.Flags().Changed("email") {
				body.Email = &email
			}
			if cmd.Flags().Changed("department") {
				body.Department = &department
			}
			if body.Email == nil && body.Department == nil {
				return fmt.Errorf("nothing to update: pass --email or --department")
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			resp, err := a.Users.Update(ctx, id, body)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated user %s", resp.Data.Email)))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&department, "department", "", "New department")
	return cmd
}

func newUserDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			resp, err := a.Users.Delete(ctx, id)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(resp.Message))
			return nil
		},
	}
}

func newUserRestoreCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			resp, err := a.Users.Restore(ctx, id)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(resp.Message))
			return nil
		},
	}
}

func newUserRoleCmd(flags *cli.CommandFlags) *cobra.Command {
	var role, status string

	cmd := &cobra.Command{
		Use:   "role <id>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if role == "" {
				return fmt.Errorf("--role is required")
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			body := solar.UserRoleUpdate{Role: solar.UserRole(role)}
			if cmd.Flags().Changed("status") {
				s := solar.UserStatus(status)
				body.Status = &s
			}

			resp, err := a.Users.UpdateRole(ctx, id, body)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated role of %s to %s", resp.Data.Email, resp.Data.Role)))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "New role")
	cmd.Flags().StringVar(&status, "status", "", "New status (optional)")
	return cmd
}

func newUserResetPasswordCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Reset another user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			resp, err := a.Users.ResetPassword(ctx, id)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(resp.Message))
			return nil
		},
	}
}

func newUserChangePasswordCmd(flags *cli.CommandFlags) *cobra.Command {
	var current, newPassword string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change your own password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if current == "" || newPassword == "" {
				return fmt.Errorf("--current and --new are required")
			}

			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requireAuth(ctx, a); err != nil {
				return err
			}

			resp, err := a.Users.ChangePassword(ctx, solar.UserPasswordChange{
				CurrentPassword: current,
				NewPassword:     newPassword,
			})
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(resp.Message))
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "New password")
	return cmd
}

func newUserStatsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show user account statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			stats, err := a.Users.Stats(ctx)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(stats)
			}

			fmt.Println(cli.FormatHeading("Users"))
			fmt.Println(cli.Bullet("Total", strconv.Itoa(stats.TotalUsers)))
			fmt.Println(cli.Bullet("Active", strconv.Itoa(stats.ActiveUsers)))
			fmt.Println(cli.Bullet("Inactive", strconv.Itoa(stats.InactiveUsers)))

			rows := make([][]string, 0, len(stats.RoleDistribution))
			for _, entry := range stats.RoleDistribution {
				rows = append(rows, []string{cli.TitleCase(entry.Role), strconv.Itoa(entry.Count)})
			}
			if len(rows) > 0 {
				fmt.Println()
				printer.PrintTable([]string{"role", "count"}, rows)
			}
			return nil
		},
	}
}

func newUserRolesCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the roles you may assign",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(flags)
			if err != nil {
				return err
			}
			defer a.Stop()

			ctx := cmd.Context()
			if err := requirePermission(ctx, a, solar.PermissionManageUsers); err != nil {
				return err
			}

			roles, err := a.Users.AvailableRoles(ctx)
			if err != nil {
				return wrapRemoteError(err, a.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(roles)
			}
			rows := make([][]string, 0, len(roles))
			for _, r := range roles {
				rows = append(rows, []string{r, cli.TitleCase(r)})
			}
			printer.PrintTable([]string{"role", "display"}, rows)
			return nil
		},
	}
}
