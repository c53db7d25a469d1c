package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/tui"
	"taskdeck/internal/workspace"
)

func init() {
	Register(&UICmd{})
}

// UICmd launches the interactive full-screen mode. It does not require an
// established session: the UI shows its own login/register form.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Interactive mode" }
func (c *UICmd) Usage() string     { return "taskdeck ui" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, ws); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
