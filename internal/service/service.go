// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"

	"duke/internal/task"
)

var (
	// ErrOutOfRange is returned when a task number does not exist.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrStorage wraps failures to read or write the backing store.
	ErrStorage = errors.New("storage error")
)

// Service defines the interface for task backend operations.
// Task numbers are 1-based positions in ListTasks order.
// Commands never import a backend directly.
type Service interface {
	// ListTasks returns all tasks in storage order.
	ListTasks(ctx context.Context) ([]task.Task, error)

	// AddTask appends a task.
	AddTask(ctx context.Context, t task.Task) error

	// MarkTask marks task n as done and returns it.
	MarkTask(ctx context.Context, n int) (task.Task, error)

	// UnmarkTask marks task n as not done and returns it.
	UnmarkTask(ctx context.Context, n int) (task.Task, error)

	// DeleteTask removes task n and returns it.
	DeleteTask(ctx context.Context, n int) (task.Task, error)
}
