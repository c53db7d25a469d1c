package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/workspace"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: it toggles a task's completed flag,
// so running it on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle", "undo"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completed state" }
func (c *DoneCmd) Usage() string     { return "taskdeck done <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskIndex(args)
	if err != nil {
		if err == ErrIndexRequired {
			fmt.Fprintln(errOut, "error: task number required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	task, ok := ws.TaskAt(num)
	if !ok {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return exitcode.UserError
	}

	if err := ws.Toggle(ctx, task.ID); err != nil {
		return backendFail(errOut, ws, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
