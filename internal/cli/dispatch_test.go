package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"duke/internal/backend/file"
	"duke/internal/cli"
	"duke/internal/commands"
	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/service"
	"duke/internal/task"
	"duke/internal/testutil"
)

// isolate points the config dir at a temp dir and clears Duke env vars.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvDataFile, "")
	return filepath.Join(xdg, config.AppName)
}

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func newDispatcher(svc *testutil.FakeService, input string) *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), strings.NewReader(input))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"blah"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: blah\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_CommandNameIgnoresCase(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"VERSION"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "duke " + commands.Version + "\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(task.NewTodo("read book", false))
	dispatcher := newDispatcher(svc, "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "Here are the tasks in your list:\n1.[T][ ] read book\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--bogus"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -bogus\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_UnknownBackend(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--backend", "floppy"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown backend: floppy\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagsReachConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "tasks.txt")

	var got *config.Config
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	var stdout, stderr bytes.Buffer
	args := []string{"list", "--config", dir, "--data", dataPath, "--backend", "google", "--quiet"}
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if got.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, got.Dir)
	}
	if got.DataPath != dataPath {
		t.Errorf("expected data path %q, got %q", dataPath, got.DataPath)
	}
	if got.Backend != config.BackendGoogle {
		t.Errorf("expected backend %q, got %q", config.BackendGoogle, got.Backend)
	}
	if !got.Quiet {
		t.Error("expected quiet to be set")
	}
	if stdout.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout.String())
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--debug"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr.String(), "dispatch") {
		t.Errorf("expected debug log on stderr, got %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "dispatch") {
		t.Errorf("debug log leaked to stdout: %q", stdout.String())
	}
}

func TestDispatcher_FactoryAuthError(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("not logged in: token.json missing")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_FactoryBackendError(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("disk on fire")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: disk on fire\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_ServiceNotCreatedForHelp(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		t.Error("factory should not be called")
		return nil, nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	var stdout, stderr bytes.Buffer
	if code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr); code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
}

func TestShell_Session(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	input := "todo read book\n\n   \ndeadline return book /by Sunday\nmark 1\nlist\nbye\nlist\n"
	dispatcher := newDispatcher(svc, input)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"shell"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	testutil.GoldenString(t, "shell_session", stdout.String())
}

func TestShell_EOFEndsSession(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "todo a")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"shell"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasSuffix(stdout.String(), "Bye. Hope to see you again soon!\n") {
		t.Errorf("expected farewell at end, got %q", stdout.String())
	}
}

func TestShell_ErrorsDoNotEndSession(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(svc, "blah\nmark 3\ntodo\nshell\ntodo a\nBYE\n")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"shell"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "error: unknown command: blah\n" +
		"error: task number out of range: 3\n" +
		"error: description required\n" +
		"error: already in shell\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
	if len(svc.Tasks()) != 1 {
		t.Errorf("expected 1 task after session, got %d", len(svc.Tasks()))
	}
}

func TestShell_CommonFlagsApplyToEveryLine(t *testing.T) {
	isolate(t)
	dataPath := filepath.Join(t.TempDir(), "tasks.txt")
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return file.New(cfg.DataPath, cfg.Log()), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, strings.NewReader("todo a\ntodo b\n"))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"shell", "--data", dataPath}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	expected := "T | 0 | a\nT | 0 | b\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}
}

func TestShell_StopsOnCancelWhileWaitingForInput(t *testing.T) {
	isolate(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), pr)

	ctx, cancel := context.WithCancel(context.Background())
	var stdout, stderr bytes.Buffer
	result := make(chan int, 1)
	go func() {
		result <- dispatcher.Run(ctx, []string{"shell"}, &stdout, &stderr)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case code := <-result:
		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
		if !strings.HasSuffix(stdout.String(), "Bye. Hope to see you again soon!\n") {
			t.Errorf("expected farewell at end, got %q", stdout.String())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not return after the context was cancelled")
	}
}

func TestShell_RejectsArguments(t *testing.T) {
	isolate(t)
	dispatcher := newDispatcher(testutil.NewFakeService(), "")

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"shell", "extra"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout.String() != "" {
		t.Errorf("expected no greeting, got %q", stdout.String())
	}
}
