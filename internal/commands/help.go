package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "duke help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  duke                                            List all tasks
  duke list [common flags] [--pending]            List tasks (alias: ls)
  duke todo [common flags] <description...>       Add a todo (alias: add)
  duke deadline [common flags] <description...> /by <when...>
  duke event [common flags] <description...> /from <start...> /to <end...>
  duke mark [common flags] <n>                    Mark task n as done (alias: done)
  duke unmark [common flags] <n>                  Mark task n as not done (alias: undone)
  duke delete [common flags] <n>                  Delete task n (alias: rm)
  duke find [common flags] <keyword...>           Search task descriptions
  duke shell [common flags]                       Read commands from stdin until "bye"
  duke login [common flags]                       Authenticate with Google Tasks
  duke logout [common flags]                      Remove stored Google credentials
  duke help
  duke version

Dates written as YYYY-MM-DD are shown as "Jan 2 2006".

Common flags:
  --config <dir>     Override config directory
  --data <file>      Override the task data file
  --backend <name>   Storage backend: file (default) or google
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
