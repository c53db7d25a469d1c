package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/workspace"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	password string

	// stdin is swapped in tests; defaults to os.Stdin.
	stdin io.Reader
}

// SetPassword sets the password (for testing).
func (c *LoginCmd) SetPassword(password string) {
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the task API" }
func (c *LoginCmd) Usage() string     { return "taskdeck login [--password <pw>] <username>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, ws *workspace.Workspace, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}
	username := args[0]

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

	if err := ws.Login(ctx, username, password); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ws.Err())
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if profile, ok := ws.Session().Profile(); ok {
			fmt.Fprintf(out, "logged in as %s\n", profile.DisplayName())
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}

// promptPassword prompts on stderr and reads one line.
func promptPassword(in io.Reader, errOut io.Writer) (string, error) {
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprint(errOut, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
