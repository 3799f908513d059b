package task

import (
	"strings"
	"time"
)

const (
	// DateLayout is the accepted input form for dates in /by, /from and /to.
	DateLayout = "2006-01-02"

	// DisplayDateLayout is how parsed dates are shown to the user.
	DisplayDateLayout = "Jan 2 2006"
)

// Todo is a task with only a description.
type Todo struct {
	Base
}

// NewTodo creates a todo.
func NewTodo(description string, done bool) *Todo {
	return &Todo{Base: NewBase(KindTodo, description, done)}
}

func (t *Todo) String() string { return t.render() }

// Deadline is a task that must be finished by a given time.
type Deadline struct {
	Base
	by string
}

// NewDeadline creates a deadline. by is kept verbatim for saving.
func NewDeadline(description, by string, done bool) *Deadline {
	return &Deadline{Base: NewBase(KindDeadline, description, done), by: by}
}

// By returns the deadline as entered.
func (d *Deadline) By() string { return d.by }

// Due returns the deadline date when by is a DateLayout date.
func (d *Deadline) Due() (time.Time, bool) {
	return parseDate(d.by)
}

func (d *Deadline) String() string {
	return d.render() + " (by: " + displayWhen(d.by) + ")"
}

func (d *Deadline) FileString() string {
	return d.Base.FileString() + FieldSeparator + d.by
}

// Event is a task that spans a period of time.
type Event struct {
	Base
	from string
	to   string
}

// NewEvent creates an event running from from to to.
func NewEvent(description, from, to string, done bool) *Event {
	return &Event{Base: NewBase(KindEvent, description, done), from: from, to: to}
}

// From returns the start as entered.
func (e *Event) From() string { return e.from }

// To returns the end as entered.
func (e *Event) To() string { return e.to }

func (e *Event) String() string {
	return e.render() + " (from: " + displayWhen(e.from) + " to: " + displayWhen(e.to) + ")"
}

func (e *Event) FileString() string {
	return e.Base.FileString() + FieldSeparator + e.from + FieldSeparator + e.to
}

func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// displayWhen renders DateLayout dates as DisplayDateLayout and leaves
// anything else untouched.
func displayWhen(s string) string {
	if d, ok := parseDate(s); ok {
		return d.Format(DisplayDateLayout)
	}
	return s
}
