package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/output"
	"duke/internal/service"
	"duke/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `duke` (no args) and `duke list`.
type ListCmd struct {
	pending bool
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "duke list [--pending]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.pending, "pending", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	// Numbers always refer to the full list so they can be passed to mark/delete.
	type numbered struct {
		num int
		t   task.Task
	}
	var shown []numbered
	for i, t := range tasks {
		if c.pending && t.IsDone() {
			continue
		}
		shown = append(shown, numbered{i + 1, t})
	}

	if len(shown) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	fmt.Fprintln(out, output.ListHeader)
	for _, s := range shown {
		output.FormatTask(out, s.num, s.t)
	}
	return exitcode.Success
}
