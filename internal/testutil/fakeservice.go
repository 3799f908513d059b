// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"duke/internal/service"
	"duke/internal/task"
	"duke/internal/tasklist"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu   sync.Mutex
	list *tasklist.List

	// Error injection for testing
	ListTasksErr  error
	AddTaskErr    error
	MarkTaskErr   error
	UnmarkTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates a FakeService holding the given tasks.
func NewFakeService(tasks ...task.Task) *FakeService {
	return &FakeService{list: tasklist.New(tasks...)}
}

// Tasks returns the current tasks without going through the Service API.
func (f *FakeService) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.All()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]task.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, t task.Task) error {
	if f.AddTaskErr != nil {
		return f.AddTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list.Add(t)
	return nil
}

// MarkTask implements service.Service.
func (f *FakeService) MarkTask(ctx context.Context, n int) (task.Task, error) {
	if f.MarkTaskErr != nil {
		return nil, f.MarkTaskErr
	}
	return f.apply(func() (task.Task, error) { return f.list.Mark(n) })
}

// UnmarkTask implements service.Service.
func (f *FakeService) UnmarkTask(ctx context.Context, n int) (task.Task, error) {
	if f.UnmarkTaskErr != nil {
		return nil, f.UnmarkTaskErr
	}
	return f.apply(func() (task.Task, error) { return f.list.Unmark(n) })
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, n int) (task.Task, error) {
	if f.DeleteTaskErr != nil {
		return nil, f.DeleteTaskErr
	}
	return f.apply(func() (task.Task, error) { return f.list.Delete(n) })
}

func (f *FakeService) apply(fn func() (task.Task, error)) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := fn()
	if errors.Is(err, tasklist.ErrOutOfRange) {
		return nil, fmt.Errorf("%w: %v", service.ErrOutOfRange, err)
	}
	return t, err
}
