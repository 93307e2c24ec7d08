package console

import "github.com/chzyer/readline"

// createCompleter builds tab completion for console commands and
// screen names.
func (c *Console) createCompleter() readline.AutoCompleter {
	screens := make([]readline.PrefixCompleterInterface, 0, len(screenGuards))
	for _, name := range ScreenNames() {
		screens = append(screens, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("open", screens...),
		readline.PcItem("go", screens...),
		readline.PcItem("list"),
		readline.PcItem("login"),
		readline.PcItem("logout"),
		readline.PcItem("whoami"),
		readline.PcItem("status"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}
