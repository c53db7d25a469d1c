package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/session"
	"taskdeck/internal/testutil"
	"taskdeck/internal/workspace"
)

// newWorkspace builds a workspace over the given FakeService with an
// established session and a loaded cache.
func newWorkspace(t *testing.T, fake *testutil.FakeService) *workspace.Workspace {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	ws := workspace.New(fake, session.New(fake, cfg))
	if err := ws.Login(context.Background(), testutil.SeedUsername, testutil.SeedPassword); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return ws
}

// runCommand is a helper to run a command against a workspace.
func runCommand(t *testing.T, cmd commands.Command, ws *workspace.Workspace, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, ws, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "version", stdout)
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("Buy milk", "", "2024-06-01T10:00:00Z")
	fake.AddTask("Buy eggs", "a dozen", "2024-06-02T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk\n   2  [ ] Buy eggs\n          a dozen\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, ws, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_SortByDate(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("newest", "", "2024-06-03T10:00:00Z")
	fake.AddTask("oldest", "", "2024-06-01T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.ListCmd{}
	cmd.SetSort(true, false)
	stdout, _, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] oldest\n   2  [ ] newest\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_SortReverse(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("oldest", "", "2024-06-01T10:00:00Z")
	fake.AddTask("newest", "", "2024-06-03T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.ListCmd{}
	cmd.SetSort(false, true)
	stdout, _, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] newest\n   2  [ ] oldest\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, ws, []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	fake := testutil.NewFakeService()
	ws := newWorkspace(t, fake)

	cmd := &commands.AddCmd{}
	cmd.SetDescription("2%")
	stdout, stderr, code := runCommand(t, cmd, ws, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	tasks := ws.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Description != "2%" {
		t.Errorf("unexpected cache state: %+v", tasks)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	fake := testutil.NewFakeService()
	ws := newWorkspace(t, fake)

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if got := fake.CallCount("CreateTask"); got != 0 {
		t.Errorf("expected no backend call, got %d", got)
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	fake := testutil.NewFakeService()
	ws := newWorkspace(t, fake)
	fake.CreateTaskErr = &erroredCall{}

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, ws, []string{"title"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Failed to add todo\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

type erroredCall struct{}

func (e *erroredCall) Error() string { return "backend down" }

// Tests for done command
func TestDoneCommand_TogglesTask(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("task one", "", "2024-06-01T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.DoneCmd{}
	stdout, _, code := runCommand(t, cmd, ws, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if !ws.Tasks()[0].Completed {
		t.Error("expected task completed")
	}

	// Toggling again reopens it.
	_, _, code = runCommand(t, cmd, ws, []string{"1"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if ws.Tasks()[0].Completed {
		t.Error("expected task reopened")
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, ws, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 5\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDoneCommand_NoNumber(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("doomed", "", "2024-06-01T10:00:00Z")
	fake.AddTask("survivor", "", "2024-06-02T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.RmCmd{}
	stdout, _, code := runCommand(t, cmd, ws, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	tasks := ws.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "survivor" {
		t.Errorf("unexpected cache state: %+v", tasks)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("old title", "old desc", "2024-06-01T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.EditCmd{}
	cmd.SetFields("new title", "")
	stdout, _, code := runCommand(t, cmd, ws, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	got := ws.Tasks()[0]
	if got.Title != "new title" {
		t.Errorf("expected title updated, got %q", got.Title)
	}
	if got.Description != "old desc" {
		t.Errorf("expected description preserved, got %q", got.Description)
	}
}

func TestEditCommand_NothingToEdit(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("task", "", "2024-06-01T10:00:00Z")
	ws := newWorkspace(t, fake)

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, ws, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "nothing to edit") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for whoami command
func TestWhoamiCommand(t *testing.T) {
	ws := newWorkspace(t, testutil.NewFakeService())

	cmd := &commands.WhoamiCmd{}
	stdout, _, code := runCommand(t, cmd, ws, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Alice (alice)\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}
