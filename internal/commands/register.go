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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	password string

	stdin io.Reader
}

// SetFields sets the registration fields (for testing).
func (c *RegisterCmd) SetFields(name, password string) {
	c.name = name
	c.password = password
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskdeck register --name <name> [--password <pw>] <username>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}
	username := args[0]

	if strings.TrimSpace(c.name) == "" {
		fmt.Fprintln(errOut, "error: name required")
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		var err error
		password, err = promptPassword(c.stdin, errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
			return exitcode.UserError
		}
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	if err := ws.Register(ctx, c.name, username, password); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ws.Err())
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", username)
	}
	return exitcode.Success
}
