package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/workspace"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: a one-shot open/modify/save of the
// edit draft for a single task.
type EditCmd struct {
	title       string
	description string
}

// SetFields sets the edit fields (for testing).
func (c *EditCmd) SetFields(title, description string) {
	c.title = title
	c.description = description
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task's title or description" }
func (c *EditCmd) Usage() string     { return "taskdeck edit [--title <text>] [--desc <text>] <n>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskIndex(args)
	if err != nil {
		if err == ErrIndexRequired {
			fmt.Fprintln(errOut, "error: task number required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	if strings.TrimSpace(c.title) == "" && strings.TrimSpace(c.description) == "" {
		fmt.Fprintln(errOut, "error: nothing to edit (use --title or --desc)")
		return exitcode.UserError
	}

	task, ok := ws.TaskAt(num)
	if !ok {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return exitcode.UserError
	}

	// Seed the draft from the current record; flags override field by field.
	ws.BeginEdit(task.ID)
	title := task.Title
	if strings.TrimSpace(c.title) != "" {
		title = c.title
	}
	description := task.Description
	if strings.TrimSpace(c.description) != "" {
		description = c.description
	}
	ws.UpdateDraft(title, description)

	if err := ws.SaveEdit(ctx); err != nil {
		return backendFail(errOut, ws, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
