package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"solarops/internal/cli"
	"solarops/pkg/solar"
)

// errExit signals a clean console shutdown from the exit command.
var errExit = errors.New("exit")

// executeCommand parses one input line and dispatches it.
func (c *Console) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	if name == "?" {
		name = "help"
	}

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch name {
	case "help":
		c.printHelp()
		return nil
	case "open", "go":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <screen> (screens: %s)", strings.Join(ScreenNames(), ", "))
		}
		return c.openScreen(cmdCtx, args[0])
	case "login":
		return c.loginFlow(cmdCtx)
	case "logout":
		return c.app.Session.Logout(cmdCtx)
	case "whoami":
		return c.showProfile()
	case "status":
		return c.showStatus()
	case "list", "ls":
		return c.listCurrent(cmdCtx, args)
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Println(`Commands:
  open <screen>   Navigate to a screen (` + strings.Join(ScreenNames(), ", ") + `)
  list            List the resources of the current screen
  login           Sign in with email and password
  logout          Sign out and clear the stored token
  whoami          Show the current user
  status          Show session status
  help            Show this help
  exit            Leave the console`)
}

// openScreen navigates through the screen's guard. On deny the guard
// raises the redirect itself; the event loop renders it.
func (c *Console) openScreen(ctx context.Context, name string) error {
	screen, err := ParseScreen(name)
	if err != nil {
		return err
	}

	var g interface {
		Allow(context.Context) (bool, error)
	}
	switch screenGuards[screen] {
	case guardAuth:
		g = c.app.AuthGuard()
	case guardManageUsers:
		g = c.app.ManageUsersGuard()
	case guardManageAssets:
		g = c.app.ManageAssetsGuard()
	default:
		c.setScreen(screen)
		return nil
	}

	var allowed bool
	err = cli.WithSpinner(false, "Checking access...", func() error {
		var allowErr error
		allowed, allowErr = g.Allow(ctx)
		return allowErr
	})
	if err != nil {
		return err
	}
	if allowed {
		c.setScreen(screen)
	}
	return nil
}

// loginFlow prompts for credentials and commits the session.
func (c *Console) loginFlow(ctx context.Context) error {
	defer c.updatePrompt()

	c.rl.SetPrompt("Email: ")
	email, err := c.rl.Readline()
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email must not be empty")
	}

	password, err := c.rl.ReadPassword("Password: ")
	if err != nil {
		return err
	}

	var user *solar.User
	err = cli.WithSpinner(false, "Signing in...", func() error {
		var loginErr error
		user, loginErr = c.app.Session.Login(ctx, email, string(password))
		return loginErr
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Signed in as %s", user.Email)))
	c.syncSessionState()
	c.setScreen(ScreenHome)
	return nil
}

func (c *Console) showProfile() error {
	user := c.app.Session.CurrentUser()
	if user == nil {
		return errors.New("not signed in")
	}
	fmt.Println(cli.FormatHeading("Profile"))
	fmt.Println(cli.Bullet("Email", user.Email))
	fmt.Println(cli.Bullet("Role", cli.TitleCase(string(user.Role))))
	fmt.Println(cli.Bullet("Status", cli.TitleCase(string(user.Status))))
	fmt.Println(cli.Bullet("Department", cli.Dash(user.Department)))
	fmt.Println(cli.Bullet("Active", cli.FormatBool(user.IsActive)))
	return nil
}

func (c *Console) showStatus() error {
	st := c.app.Session.Status()
	fmt.Println(cli.FormatHeading("Session"))
	fmt.Println(cli.Bullet("Endpoint", st.Endpoint))
	fmt.Println(cli.Bullet("State", cli.StatusBadge(st.Authenticated)))
	fmt.Println(cli.Bullet("Token stored", cli.FormatBool(st.HasToken)))
	if st.HasToken {
		fmt.Println(cli.Bullet("Stored at", cli.FormatTime(st.TokenStoredAt)))
	}
	if st.User != nil {
		fmt.Println(cli.Bullet("User", st.User.Email))
	}
	return nil
}

// listCurrent lists the resources of the current screen.
func (c *Console) listCurrent(ctx context.Context, args []string) error {
	search := strings.Join(args, " ")
	printer := &cli.Printer{Format: cli.OutputFormatTable, Out: os.Stdout}

	switch c.currentScreen() {
	case ScreenUsers:
		return c.listUsers(ctx, printer, search)
	case ScreenAssets:
		return c.listAssets(ctx, printer, search)
	case ScreenLocations:
		return c.listLocations(ctx, printer, search)
	case ScreenTemplates:
		return c.listTemplates(ctx, printer, search)
	case ScreenInventory:
		return c.listInventory(ctx, printer)
	case ScreenProfile:
		return c.showProfile()
	default:
		return fmt.Errorf("nothing to list on the %s screen; use 'open' to navigate", c.currentScreen())
	}
}

func (c *Console) listUsers(ctx context.Context, printer *cli.Printer, search string) error {
	var resp *solar.UserListResponse
	err := cli.WithSpinner(false, "Fetching users...", func() error {
		var listErr error
		resp, listErr = c.app.Users.List(ctx, solar.UserListParams{Search: search})
		return listErr
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(resp.Data))
	for _, u := range resp.Data {
		rows = append(rows, []string{
			fmt.Sprintf("%d", u.ID),
			u.Email,
			cli.TitleCase(string(u.Role)),
			cli.TitleCase(string(u.Status)),
			cli.Dash(u.Department),
		})
	}
	printer.PrintTable([]string{"id", "email", "role", "status", "department"}, rows)
	return nil
}

func (c *Console) listAssets(ctx context.Context, printer *cli.Printer, search string) error {
	var page *solar.Paginated[solar.Asset]
	err := cli.WithSpinner(false, "Fetching assets...", func() error {
		var listErr error
		page, listErr = c.app.Assets.List(ctx, solar.ListParams{Search: search})
		return listErr
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, a := range page.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			a.Name,
			a.Code,
			cli.TitleCase(string(a.AssetType)),
			cli.TitleCase(string(a.Status)),
		})
	}
	printer.PrintTable([]string{"id", "name", "code", "type", "status"}, rows)
	return nil
}

func (c *Console) listLocations(ctx context.Context, printer *cli.Printer, search string) error {
	var page *solar.Paginated[solar.Location]
	err := cli.WithSpinner(false, "Fetching locations...", func() error {
		var listErr error
		page, listErr = c.app.Assets.ListLocations(ctx, solar.ListParams{Search: search})
		return listErr
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, l := range page.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", l.ID),
			l.Name,
			l.Code,
			cli.Truncate(cli.Dash(l.Description), 50),
		})
	}
	printer.PrintTable([]string{"id", "name", "code", "description"}, rows)
	return nil
}

func (c *Console) listTemplates(ctx context.Context, printer *cli.Printer, search string) error {
	var page *solar.Paginated[solar.AssetTemplate]
	err := cli.WithSpinner(false, "Fetching templates...", func() error {
		var listErr error
		page, listErr = c.app.Assets.ListTemplates(ctx, solar.ListParams{Search: search})
		return listErr
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, t := range page.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			t.Code,
			cli.TitleCase(string(t.AssetType)),
			cli.TitleCase(string(t.Category)),
			cli.Dash(t.Manufacturer),
		})
	}
	printer.PrintTable([]string{"id", "name", "code", "type", "category", "manufacturer"}, rows)
	return nil
}

func (c *Console) listInventory(ctx context.Context, printer *cli.Printer) error {
	var page *solar.Paginated[solar.Inventory]
	err := cli.WithSpinner(false, "Fetching inventory...", func() error {
		var listErr error
		page, listErr = c.app.Assets.ListInventory(ctx, solar.ListParams{})
		return listErr
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, inv := range page.Items {
		name := fmt.Sprintf("template %d", inv.TemplateID)
		if inv.Template != nil {
			name = inv.Template.Name
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", inv.ID),
			name,
			fmt.Sprintf("%d", inv.Quantity),
			fmt.Sprintf("%d", inv.AvailableQuantity),
			fmt.Sprintf("%d", inv.ReservedQuantity),
			cli.Dash(inv.BatchNumber),
		})
	}
	printer.PrintTable([]string{"id", "template", "quantity", "available", "reserved", "batch"}, rows)
	return nil
}
