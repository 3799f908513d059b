// Package task defines the Duke task types and their text representations.
package task

import "fmt"

// Kind is the short code that identifies a task variant in saved records.
type Kind string

const (
	KindTodo     Kind = "T"
	KindDeadline Kind = "D"
	KindEvent    Kind = "E"
)

// FieldSeparator separates the fields of a saved record.
const FieldSeparator = " | "

// Task is implemented by every task variant.
type Task interface {
	// TaskType returns the variant's type code.
	TaskType() Kind

	// Description returns the text given at construction.
	Description() string

	// IsDone reports whether the task is completed.
	IsDone() bool

	// StatusIcon returns "X" for a done task and " " otherwise.
	StatusIcon() string

	// MarkAsDone sets the task as done.
	MarkAsDone()

	// MarkAsNotDone sets the task as not done.
	MarkAsNotDone()

	// String returns the human-readable form shown to the user.
	String() string

	// FileString returns the record written to the data file.
	FileString() string
}

// Base holds the state shared by all variants. Variants embed it and
// override String and FileString to add their own fields.
type Base struct {
	kind        Kind
	description string
	done        bool
}

// NewBase creates the shared part of a task of the given kind.
func NewBase(kind Kind, description string, done bool) Base {
	return Base{kind: kind, description: description, done: done}
}

func (b *Base) TaskType() Kind      { return b.kind }
func (b *Base) Description() string { return b.description }
func (b *Base) IsDone() bool        { return b.done }
func (b *Base) MarkAsDone()         { b.done = true }
func (b *Base) MarkAsNotDone()      { b.done = false }

// StatusIcon returns "X" when done, a single space otherwise.
func (b *Base) StatusIcon() string {
	if b.done {
		return "X"
	}
	return " "
}

// String renders only the status fragment, e.g. "[X]".
func (b *Base) String() string {
	return "[" + b.StatusIcon() + "]"
}

// FileString renders "<type> | <0|1> | <description>".
func (b *Base) FileString() string {
	return fmt.Sprintf("%s%s%d%s%s", b.kind, FieldSeparator, b.doneFlag(), FieldSeparator, b.description)
}

func (b *Base) doneFlag() int {
	if b.done {
		return 1
	}
	return 0
}

// render composes "[<type>][<icon>] <description>" for the variants.
func (b *Base) render() string {
	return "[" + string(b.kind) + "]" + b.String() + " " + b.description
}
