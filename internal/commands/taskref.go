package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"duke/internal/config"
	"duke/internal/exitcode"
	"duke/internal/output"
	"duke/internal/service"
	"duke/internal/task"
)

// ErrTaskNumberRequired indicates no task number was provided.
var ErrTaskNumberRequired = errors.New("task number required")

// ParseTaskNumber parses the 1-based task number from args.
//
// Parsing rules:
// 1. No args → ErrTaskNumberRequired
// 2. First arg all digits → that number (range is checked by the backend)
// 3. Anything else, or extra args → error: invalid task number: <args>
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskNumberRequired
	}
	if len(args) > 1 || !isAllDigits(args[0]) {
		return 0, fmt.Errorf("invalid task number: %s", strings.Join(args, " "))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// taskOp is a Service method that acts on one numbered task.
type taskOp func(ctx context.Context, n int) (task.Task, error)

// runTaskOp is the shared implementation for mark, unmark and delete.
func runTaskOp(ctx context.Context, cfg *config.Config, svc service.Service, op taskOp, header string, withCount bool, args []string, out, errOut io.Writer) int {
	n, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if n < 1 {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", n)
		return exitcode.UserError
	}

	t, err := op(ctx, n)
	if err != nil {
		return reportError(errOut, err, n)
	}
	cfg.Log().Debug("task updated", zap.String("record", t.FileString()))

	if cfg.Quiet {
		return exitcode.Success
	}

	count := 0
	if withCount {
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return reportError(errOut, err, n)
		}
		count = len(tasks)
	}
	output.FormatConfirmation(out, header, t, count, withCount)
	return exitcode.Success
}

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error, n int) int {
	if errors.Is(err, service.ErrOutOfRange) {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", n)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
