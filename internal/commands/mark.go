package commands

import (
	"context"
	"flag"
	"io"

	"duke/internal/config"
	"duke/internal/output"
	"duke/internal/service"
)

func init() {
	Register(&MarkCmd{})
	Register(&UnmarkCmd{})
}

// MarkCmd implements the mark command.
type MarkCmd struct{}

func (c *MarkCmd) Name() string       { return "mark" }
func (c *MarkCmd) Aliases() []string  { return []string{"done"} }
func (c *MarkCmd) Synopsis() string   { return "Mark a task as done" }
func (c *MarkCmd) Usage() string      { return "duke mark <n>" }
func (c *MarkCmd) NeedsService() bool { return true }

func (c *MarkCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MarkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runTaskOp(ctx, cfg, svc, svc.MarkTask, output.MarkedHeader, false, args, out, errOut)
}

// UnmarkCmd implements the unmark command.
type UnmarkCmd struct{}

func (c *UnmarkCmd) Name() string       { return "unmark" }
func (c *UnmarkCmd) Aliases() []string  { return []string{"undone"} }
func (c *UnmarkCmd) Synopsis() string   { return "Mark a task as not done" }
func (c *UnmarkCmd) Usage() string      { return "duke unmark <n>" }
func (c *UnmarkCmd) NeedsService() bool { return true }

func (c *UnmarkCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UnmarkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runTaskOp(ctx, cfg, svc, svc.UnmarkTask, output.UnmarkHeader, false, args, out, errOut)
}
