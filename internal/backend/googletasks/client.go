// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Tasks live in the user's default Google task list. Each Google task carries
// its Duke record in the notes field so the type and extra fields survive.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"duke/internal/config"
	"duke/internal/service"
	"duke/internal/task"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	log    *zap.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: DefaultListID, log: cfg.Log()}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API
// endpoint (for testing). An empty endpoint uses the real API.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: DefaultListID, log: zap.NewNop()}, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	items, err := c.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]task.Task, 0, len(items))
	for _, item := range items {
		result = append(result, fromAPI(item))
	}
	return result, nil
}

// AddTask implements service.Service.
func (c *Client) AddTask(ctx context.Context, t task.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(c.listID, toAPI(t)).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	c.log.Debug("inserted task", zap.String("record", t.FileString()))
	return nil
}

// MarkTask implements service.Service.
func (c *Client) MarkTask(ctx context.Context, n int) (task.Task, error) {
	return c.setDone(ctx, n, true)
}

// UnmarkTask implements service.Service.
func (c *Client) UnmarkTask(ctx context.Context, n int) (task.Task, error) {
	return c.setDone(ctx, n, false)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, n int) (task.Task, error) {
	item, err := c.nth(ctx, n)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, item.Id).Context(ctx).Do(); err != nil {
		return nil, wrapError(err)
	}
	return fromAPI(item), nil
}

func (c *Client) setDone(ctx context.Context, n int, done bool) (task.Task, error) {
	item, err := c.nth(ctx, n)
	if err != nil {
		return nil, err
	}

	t := fromAPI(item)
	if done {
		t.MarkAsDone()
	} else {
		t.MarkAsNotDone()
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &tasks.Task{Status: statusFor(t), Notes: t.FileString()}
	if !done {
		// Completed must be cleared explicitly or the API keeps the timestamp.
		patch.NullFields = []string{"Completed"}
	}
	if _, err := c.svc.Tasks.Patch(c.listID, item.Id, patch).Context(ctx).Do(); err != nil {
		return nil, wrapError(err)
	}
	c.log.Debug("patched task status", zap.String("id", item.Id), zap.String("status", patch.Status))
	return t, nil
}

// nth returns the n-th task (1-based) in listing order.
func (c *Client) nth(ctx context.Context, n int) (*tasks.Task, error) {
	items, err := c.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(items) {
		return nil, fmt.Errorf("%w: %d", service.ErrOutOfRange, n)
	}
	return items[n-1], nil
}

// fetchAll pages through every task, including completed and hidden ones.
func (c *Client) fetchAll(ctx context.Context) ([]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			items = append(items, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	c.log.Debug("listed tasks", zap.Int("count", len(items)))
	return items, nil
}

// fromAPI converts a Google task. Tasks created outside Duke have no
// record in their notes and become todos.
func fromAPI(item *tasks.Task) task.Task {
	done := item.Status == statusCompleted
	if t, err := task.Parse(item.Notes); err == nil {
		if done {
			t.MarkAsDone()
		} else {
			t.MarkAsNotDone()
		}
		return t
	}
	return task.NewTodo(item.Title, done)
}

func toAPI(t task.Task) *tasks.Task {
	item := &tasks.Task{
		Title:  t.Description(),
		Notes:  t.FileString(),
		Status: statusFor(t),
	}
	if d, ok := t.(*task.Deadline); ok {
		if due, ok := d.Due(); ok {
			item.Due = due.UTC().Format(time.RFC3339)
		}
	}
	return item
}

func statusFor(t task.Task) string {
	if t.IsDone() {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	errStr := err.Error()

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("auth: token expired or revoked (run: duke login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
