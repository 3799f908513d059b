package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/output"
	"duke/internal/service"
	"duke/internal/task"
)

func init() {
	Register(&TodoCmd{})
	Register(&DeadlineCmd{})
	Register(&EventCmd{})
}

// TodoCmd implements the todo command.
type TodoCmd struct{}

func (c *TodoCmd) Name() string       { return "todo" }
func (c *TodoCmd) Aliases() []string  { return []string{"add"} }
func (c *TodoCmd) Synopsis() string   { return "Add a todo" }
func (c *TodoCmd) Usage() string      { return "duke todo <description...>" }
func (c *TodoCmd) NeedsService() bool { return true }

func (c *TodoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TodoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	desc := strings.TrimSpace(strings.Join(args, " "))
	if desc == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	return runAdd(ctx, cfg, svc, task.NewTodo(desc, false), out, errOut)
}

// DeadlineCmd implements the deadline command.
type DeadlineCmd struct{}

func (c *DeadlineCmd) Name() string       { return "deadline" }
func (c *DeadlineCmd) Aliases() []string  { return nil }
func (c *DeadlineCmd) Synopsis() string   { return "Add a task with a due date" }
func (c *DeadlineCmd) Usage() string      { return "duke deadline <description...> /by <when...>" }
func (c *DeadlineCmd) NeedsService() bool { return true }

func (c *DeadlineCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeadlineCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	parts, err := splitMarkers(args, "/by")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if parts[0] == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	if parts[1] == "" {
		fmt.Fprintln(errOut, "error: deadline requires /by <when>")
		return exitcode.UserError
	}
	if err := checkFields(map[string]string{"/by": parts[1]}); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return runAdd(ctx, cfg, svc, task.NewDeadline(parts[0], parts[1], false), out, errOut)
}

// EventCmd implements the event command.
type EventCmd struct{}

func (c *EventCmd) Name() string       { return "event" }
func (c *EventCmd) Aliases() []string  { return nil }
func (c *EventCmd) Synopsis() string   { return "Add a task that spans a period" }
func (c *EventCmd) Usage() string      { return "duke event <description...> /from <start...> /to <end...>" }
func (c *EventCmd) NeedsService() bool { return true }

func (c *EventCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EventCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	parts, err := splitMarkers(args, "/from", "/to")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if parts[0] == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	if parts[1] == "" || parts[2] == "" {
		fmt.Fprintln(errOut, "error: event requires /from <start> /to <end>")
		return exitcode.UserError
	}
	if err := checkFields(map[string]string{"/from": parts[1], "/to": parts[2]}); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return runAdd(ctx, cfg, svc, task.NewEvent(parts[0], parts[1], parts[2], false), out, errOut)
}

// splitMarkers splits args at each marker, which must appear at most once
// and in the given order. The result has len(markers)+1 trimmed parts;
// a part is empty when its marker is missing or has nothing after it.
func splitMarkers(args []string, markers ...string) ([]string, error) {
	parts := make([]string, len(markers)+1)
	current := 0
	var buf []string

	flush := func() {
		parts[current] = strings.TrimSpace(strings.Join(buf, " "))
		buf = buf[:0]
	}

	for _, arg := range args {
		next := -1
		for i, m := range markers {
			if strings.EqualFold(arg, m) {
				next = i + 1
				break
			}
		}
		if next == -1 {
			buf = append(buf, arg)
			continue
		}
		if next <= current {
			return nil, fmt.Errorf("unexpected %s", arg)
		}
		flush()
		current = next
	}
	flush()
	return parts, nil
}

// checkFields rejects variant fields containing '|'. Records split those
// fields off the right at the separator, so a pipe inside one would move
// text into the description on the next load.
func checkFields(fields map[string]string) error {
	for _, marker := range []string{"/from", "/to", "/by"} {
		if v, ok := fields[marker]; ok && strings.Contains(v, "|") {
			return fmt.Errorf("%s must not contain '|': %s", marker, v)
		}
	}
	return nil
}

// runAdd is the shared implementation for todo, deadline and event.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, t task.Task, out, errOut io.Writer) int {
	if err := svc.AddTask(ctx, t); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	cfg.Log().Debug("task added", zap.String("record", t.FileString()))

	if cfg.Quiet {
		return exitcode.Success
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	output.FormatConfirmation(out, output.AddedHeader, t, len(tasks), true)
	return exitcode.Success
}
