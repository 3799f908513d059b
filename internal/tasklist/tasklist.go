// Package tasklist provides the ordered container that owns a user's tasks.
package tasklist

import (
	"errors"
	"fmt"
	"strings"

	"duke/internal/task"
)

// ErrOutOfRange is returned for an index outside 1..Len.
var ErrOutOfRange = errors.New("task number out of range")

// List is an ordered list of tasks. Indexes are 1-based.
type List struct {
	tasks []task.Task
}

// Match is a Find result carrying the task's position in the list.
type Match struct {
	Index int
	Task  task.Task
}

// New creates a list holding tasks in the given order.
func New(tasks ...task.Task) *List {
	l := &List{}
	l.tasks = append(l.tasks, tasks...)
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int { return len(l.tasks) }

// All returns the tasks in order. The slice is a copy.
func (l *List) All() []task.Task {
	out := make([]task.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Add appends t.
func (l *List) Add(t task.Task) {
	l.tasks = append(l.tasks, t)
}

// Get returns the task at n.
func (l *List) Get(n int) (task.Task, error) {
	if err := l.check(n); err != nil {
		return nil, err
	}
	return l.tasks[n-1], nil
}

// Delete removes and returns the task at n.
func (l *List) Delete(n int) (task.Task, error) {
	if err := l.check(n); err != nil {
		return nil, err
	}
	removed := l.tasks[n-1]
	l.tasks = append(l.tasks[:n-1], l.tasks[n:]...)
	return removed, nil
}

// Mark sets the task at n as done and returns it.
func (l *List) Mark(n int) (task.Task, error) {
	t, err := l.Get(n)
	if err != nil {
		return nil, err
	}
	t.MarkAsDone()
	return t, nil
}

// Unmark sets the task at n as not done and returns it.
func (l *List) Unmark(n int) (task.Task, error) {
	t, err := l.Get(n)
	if err != nil {
		return nil, err
	}
	t.MarkAsNotDone()
	return t, nil
}

// Find returns the tasks whose description contains keyword, ignoring case.
func (l *List) Find(keyword string) []Match {
	needle := strings.ToLower(keyword)
	var matches []Match
	for i, t := range l.tasks {
		if strings.Contains(strings.ToLower(t.Description()), needle) {
			matches = append(matches, Match{Index: i + 1, Task: t})
		}
	}
	return matches
}

func (l *List) check(n int) error {
	if n < 1 || n > len(l.tasks) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return nil
}
