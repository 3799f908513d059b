// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"duke/internal/task"
)

const (
	ListHeader    = "Here are the tasks in your list:"
	MatchHeader   = "Here are the matching tasks in your list:"
	AddedHeader   = "Got it. I've added this task:"
	MarkedHeader  = "Nice! I've marked this task as done:"
	UnmarkHeader  = "OK, I've marked this task as not done yet:"
	RemovedHeader = "Noted. I've removed this task:"
	Greeting      = "Hello! I'm Duke\nWhat can I do for you?"
	Farewell      = "Bye. Hope to see you again soon!"
)

// FormatTask formats a numbered task line.
// Format: "{N}.{TASK}\n", e.g. "2.[D][ ] submit report (by: Oct 20 2026)".
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%d.%s\n", num, normalize(t.String()))
}

// FormatTaskIndented formats a task under a confirmation header.
// Format: "  {TASK}\n"
func FormatTaskIndented(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "  %s\n", normalize(t.String()))
}

// FormatCount formats the running total after an add or delete.
func FormatCount(w io.Writer, n int) {
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "Now you have %d %s in the list.\n", n, noun)
}

// FormatConfirmation prints header, the task and optionally the count.
func FormatConfirmation(w io.Writer, header string, t task.Task, count int, withCount bool) {
	fmt.Fprintln(w, header)
	FormatTaskIndented(w, t)
	if withCount {
		FormatCount(w, count)
	}
}

// normalize replaces newlines so a task always renders on one line.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
