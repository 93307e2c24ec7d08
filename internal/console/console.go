package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"solarops/internal/app"
	"solarops/internal/cli"
	"solarops/internal/session"
	"solarops/pkg/logging"
)

// promptPrefixUnicode brands the console prompt on unicode terminals.
const promptPrefixUnicode = "☀"

// promptPrefixASCII is the fallback for terminals without unicode.
const promptPrefixASCII = "solarops"

const promptChevronUnicode = "»"
const promptChevronASCII = ">"

// stateLoginRequired is shown in the prompt while unauthenticated. It
// is uppercase because it requires user action (the login command).
const stateLoginRequired = "[LOGIN REQUIRED]"

// commandTimeout bounds individual console command execution.
const commandTimeout = 2 * time.Minute

// Console is the interactive solarops shell.
type Console struct {
	app *app.App
	nav *Navigator
	rl  *readline.Instance

	mu            sync.RWMutex
	current       Screen
	authenticated bool
	userEmail     string
	useUnicode    bool

	logChan  <-chan logging.LogEntry
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a console over an assembled application. The navigator
// must be the one wired into the application, so redirects raised by
// guards and the transport reach this console.
func New(a *app.App, nav *Navigator) *Console {
	return &Console{
		app:        a,
		nav:        nav,
		current:    ScreenLogin,
		useUnicode: detectUnicodeSupport(),
		stopChan:   make(chan struct{}),
	}
}

// detectUnicodeSupport checks whether the terminal likely renders
// unicode. Dumb terminals and empty TERM get the ASCII prompt.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return true
		}
	}
	return true
}

// buildPrompt renders the prompt from the current screen and session
// state, e.g. "☀ op@plant.example users » " or "☀ [LOGIN REQUIRED] » ".
func (c *Console) buildPrompt() string {
	c.mu.RLock()
	screen := c.current
	authed := c.authenticated
	email := c.userEmail
	useUnicode := c.useUnicode
	c.mu.RUnlock()

	prefix, chevron := promptPrefixASCII, promptChevronASCII
	if useUnicode {
		prefix, chevron = promptPrefixUnicode, promptChevronUnicode
	}

	parts := []string{prefix}
	if authed {
		if email != "" {
			parts = append(parts, email)
		}
		parts = append(parts, string(screen))
	} else {
		parts = append(parts, stateLoginRequired)
	}
	parts = append(parts, chevron)
	return strings.Join(parts, " ") + " "
}

func (c *Console) updatePrompt() {
	if c.rl != nil {
		c.rl.SetPrompt(c.buildPrompt())
		c.rl.Refresh()
	}
}

// setScreen records the current screen and refreshes the prompt.
func (c *Console) setScreen(s Screen) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	c.updatePrompt()
}

// currentScreen returns the screen the console is on.
func (c *Console) currentScreen() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// syncSessionState refreshes the cached prompt fields from the session.
func (c *Console) syncSessionState() {
	authed := c.app.Session.IsAuthenticated()
	email := ""
	if user := c.app.Session.CurrentUser(); user != nil {
		email = user.Email
	}

	c.mu.Lock()
	c.authenticated = authed
	c.userEmail = email
	c.mu.Unlock()
	c.updatePrompt()
}

// Run starts the console and blocks until exit.
func (c *Console) Run(ctx context.Context) error {
	c.logChan = logging.InitForConsole(logging.ParseLevel(c.app.Config.LogLevel))
	defer logging.CloseConsoleChannel()

	if err := c.app.Start(ctx); err != nil {
		return err
	}
	defer c.app.Stop()

	fmt.Println("Checking session...")
	authed, err := c.app.Session.WaitForInitialization(ctx)
	if err != nil {
		return err
	}
	if authed {
		c.setScreenLocked(ScreenHome)
	} else {
		c.setScreenLocked(ScreenLogin)
	}
	c.syncSessionState()

	historyFile := filepath.Join(os.TempDir(), ".solarops_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            c.buildPrompt(),
		HistoryFile:       historyFile,
		AutoComplete:      c.createCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	c.rl = rl

	changes, unsubscribe := c.app.Session.Subscribe()
	defer unsubscribe()

	c.wg.Add(1)
	go c.eventLoop(ctx, changes)
	defer func() {
		close(c.stopChan)
		c.wg.Wait()
	}()

	fmt.Println("solarops console. Type 'help' for commands, TAB for completion.")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down...")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			fmt.Println("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := c.executeCommand(ctx, input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				return nil
			}
			fmt.Println(formatConsoleError(err))
		}
		fmt.Println()
	}
}

// setScreenLocked is setScreen for use before readline exists.
func (c *Console) setScreenLocked(s Screen) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// eventLoop reacts to navigation requests, session changes and log
// entries while the readline loop owns the terminal. Output is written
// above the prompt: clear the line, print, refresh.
func (c *Console) eventLoop(ctx context.Context, changes <-chan session.Change) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case req := <-c.nav.Requests():
			if c.currentScreen() == req.screen {
				continue
			}
			c.printAbovePrompt(c.renderRedirect(req))
			c.setScreen(req.screen)
		case change, ok := <-changes:
			if !ok {
				return
			}
			c.mu.Lock()
			c.authenticated = change.Authenticated
			if change.User != nil {
				c.userEmail = change.User.Email
			} else {
				c.userEmail = ""
			}
			c.mu.Unlock()
			c.updatePrompt()
		case entry, ok := <-c.logChan:
			if !ok {
				return
			}
			c.printAbovePrompt(formatLogEntry(entry))
		}
	}
}

// printAbovePrompt writes a line without corrupting the readline
// prompt.
func (c *Console) printAbovePrompt(line string) {
	if c.rl != nil {
		_, _ = c.rl.Stdout().Write([]byte("\r\033[K"))
	}
	fmt.Println(line)
	if c.rl != nil {
		c.rl.Refresh()
	}
}

// renderRedirect describes a forced navigation to the user.
func (c *Console) renderRedirect(req navRequest) string {
	switch req.screen {
	case ScreenLogin:
		if req.reason != "" {
			return cli.FormatWarning(fmt.Sprintf("Redirected to login: %s", req.reason))
		}
		return cli.FormatWarning("Redirected to login")
	case ScreenNoPermission:
		return cli.FormatWarning("You do not have permission to view that screen")
	default:
		return cli.FormatWarning(fmt.Sprintf("Redirected to %s", req.screen))
	}
}

// formatLogEntry renders a log entry for display above the prompt.
func formatLogEntry(entry logging.LogEntry) string {
	msg := fmt.Sprintf("[%s] %s: %s", entry.Level, entry.Subsystem, entry.Message)
	if entry.Err != nil {
		msg += fmt.Sprintf(" (%v)", entry.Err)
	}
	return cli.FormatMuted(msg)
}

// formatConsoleError renders command failures consistently.
func formatConsoleError(err error) string {
	return cli.FormatError(err)
}
