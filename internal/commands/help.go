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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                        List tasks
  taskdeck list [common flags] [--sort] [--reverse] [--long]
  taskdeck add [common flags] [--desc <text>] <title...>
  taskdeck done [common flags] <n>
  taskdeck rm [common flags] <n>
  taskdeck edit [common flags] [--title <text>] [--desc <text>] <n>
  taskdeck login [common flags] [--password <pw>] <username>
  taskdeck register [common flags] --name <name> [--password <pw>] <username>
  taskdeck logout [common flags]
  taskdeck whoami [common flags]
  taskdeck ui [common flags]
  taskdeck help
  taskdeck version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
