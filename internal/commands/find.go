package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/output"
	"duke/internal/service"
	"duke/internal/tasklist"
)

func init() {
	Register(&FindCmd{})
}

// FindCmd implements the find command.
type FindCmd struct{}

func (c *FindCmd) Name() string       { return "find" }
func (c *FindCmd) Aliases() []string  { return nil }
func (c *FindCmd) Synopsis() string   { return "Search task descriptions" }
func (c *FindCmd) Usage() string      { return "duke find <keyword...>" }
func (c *FindCmd) NeedsService() bool { return true }

func (c *FindCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FindCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		fmt.Fprintln(errOut, "error: keyword required")
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	matches := tasklist.New(tasks...).Find(keyword)
	if len(matches) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no matching tasks found")
		}
		return exitcode.Success
	}

	fmt.Fprintln(out, output.MatchHeader)
	for _, m := range matches {
		output.FormatTask(out, m.Index, m.Task)
	}
	return exitcode.Success
}
