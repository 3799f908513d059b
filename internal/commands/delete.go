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
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string       { return "delete" }
func (c *DeleteCmd) Aliases() []string  { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string   { return "Delete a task" }
func (c *DeleteCmd) Usage() string      { return "duke delete <n>" }
func (c *DeleteCmd) NeedsService() bool { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runTaskOp(ctx, cfg, svc, svc.DeleteTask, output.RemovedHeader, true, args, out, errOut)
}
