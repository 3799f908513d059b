package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"duke/internal/commands"
	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/logging"
	"duke/internal/output"
	"duke/internal/service"
)

// ShellCommand starts the interactive loop instead of a registered command.
const ShellCommand = "shell"

// ExitCommand ends the interactive loop.
const ExitCommand = "bye"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// in feeds the interactive shell; it may be nil when the shell is not used.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, in io.Reader) *Dispatcher {
	if in == nil {
		in = strings.NewReader("")
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       in,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if strings.EqualFold(cmdName, ShellCommand) {
		return d.shell(ctx, args[1:], out, errOut)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command and by the shell.
type commonFlags struct {
	configDir string
	dataPath  string
	backend   string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.dataPath, "data", "", "")
	fs.StringVar(&c.backend, "backend", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

// parseFlags parses args into fs and reports flag errors the way users see them.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) ([]string, bool) {
	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return nil, false
		}

		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, false
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, false
	}

	// A positional arg starting with - should have been parsed as a flag
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return nil, false
	}
	return positional, true
}

// newConfig builds the config for one invocation. Flags win over duke.env
// and the environment.
func newConfig(flags *commonFlags, errOut io.Writer) (*config.Config, error) {
	cfg, err := config.New(flags.configDir)
	if err != nil {
		return nil, err
	}
	if flags.dataPath != "" {
		cfg.DataPath = flags.dataPath
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Quiet = flags.quiet
	cfg.Debug = flags.debug
	cfg.Logger = logging.New(flags.debug, errOut)
	return cfg, nil
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var flags commonFlags
	flags.register(fs)
	cmd.RegisterFlags(fs)

	positional, ok := parseFlags(fs, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	cfg, err := newConfig(&flags, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer cfg.Logger.Sync() //nolint:errcheck

	cfg.Log().Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.Strings("args", positional),
		zap.String("backend", cfg.Backend),
	)

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.BackendError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// shell reads one command per line from the dispatcher's input until bye or
// EOF. Common flags given after "shell" apply to every line.
func (d *Dispatcher) shell(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(ShellCommand, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags commonFlags
	flags.register(fs)

	positional, ok := parseFlags(fs, args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if len(positional) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", positional[0])
		return exitcode.UserError
	}
	// Fail early on a bad config instead of once per line.
	if _, err := newConfig(&flags, io.Discard); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	prefix := flagArgs(fs)

	fmt.Fprintln(out, output.Greeting)

	done := make(chan struct{})
	defer close(done)
	lines := readLines(d.in, done)

loop:
	for {
		var line shellLine
		select {
		case <-ctx.Done():
			break loop
		case l, ok := <-lines:
			if !ok {
				break loop
			}
			line = l
		}
		if line.err != nil {
			fmt.Fprintf(errOut, "error: %v\n", line.err)
			break loop
		}

		fields := strings.Fields(line.text)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if strings.EqualFold(name, ExitCommand) {
			break loop
		}
		if strings.EqualFold(name, ShellCommand) {
			fmt.Fprintln(errOut, "error: already in shell")
			continue
		}
		if strings.HasPrefix(name, "-") {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
			continue
		}
		lineArgs := append(append([]string{}, prefix...), fields[1:]...)
		d.dispatch(ctx, name, lineArgs, out, errOut)
	}

	fmt.Fprintln(out, output.Farewell)
	return exitcode.Success
}

// shellLine is one line of shell input, or the error that ended the input.
type shellLine struct {
	text string
	err  error
}

// readLines scans r on its own goroutine so the shell can stop on context
// cancellation while a read is blocked. The channel is closed at EOF; the
// goroutine exits once done is closed, or at the next line after that.
func readLines(r io.Reader, done <-chan struct{}) <-chan shellLine {
	lines := make(chan shellLine)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- shellLine{text: sc.Text()}:
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case lines <- shellLine{err: err}:
			case <-done:
			}
		}
	}()
	return lines
}

// flagArgs turns the flags explicitly set on fs back into arguments.
func flagArgs(fs *flag.FlagSet) []string {
	var args []string
	fs.Visit(func(f *flag.Flag) {
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}
