package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/workspace"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is the default command when
// taskdeck is run with no arguments.
type ListCmd struct {
	sortByDate bool
	reverse    bool
	long       bool
}

// SetSort sets the sort flags (for testing).
func (c *ListCmd) SetSort(byDate, reverse bool) {
	c.sortByDate = byDate
	c.reverse = reverse
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskdeck list [--sort] [--reverse] [--long]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.sortByDate, "sort", false, "")
	fs.BoolVar(&c.reverse, "reverse", false, "")
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if c.sortByDate || c.reverse {
		// First toggle sorts oldest-first; the second flips to newest-first.
		ws.SortByDate()
		if c.reverse {
			ws.SortByDate()
		}
	}

	tasks := ws.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		if c.long {
			output.FormatTaskLong(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
	}
	return exitcode.Success
}
