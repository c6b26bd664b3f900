// Package gitlab reads project metadata and repository activity from a
// GitLab-compatible hosting API (/api/v4).
//
// Fetch methods never return errors. A failed request is logged, reported
// to the Notifier, and answered with nil (single records) or an empty slice
// (collections).
package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rcliao/student-analytics/internal/model"
	"github.com/rcliao/student-analytics/internal/notify"
)

// DefaultBaseURL is the public GitLab instance.
const DefaultBaseURL = "https://gitlab.com"

var errEmptyProject = errors.New("empty project record in response")

// StatusError is a non-success HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gitlab error %d: %s", e.StatusCode, e.Body)
}

// Client is a stateless hosting-API gateway. Tokens are passed per call.
type Client struct {
	baseURL  string
	client   *http.Client
	notifier notify.Notifier
	logger   *slog.Logger
	limiter  *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithNotifier sets where failure notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit throttles outgoing requests to rps per second. rps <= 0
// disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a gateway for the instance at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		notifier: notify.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the instance URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchProjectInfo returns the project behind a browsable project URL, or
// nil if it cannot be retrieved.
func (c *Client) FetchProjectInfo(ctx context.Context, projectURL, token string) *model.ProjectInfo {
	path, err := ParseProjectPath(projectURL, c.baseURL)
	if err != nil {
		c.fail("fetch project", err, "project_url", projectURL)
		return nil
	}

	var info *model.ProjectInfo
	if err := c.get(ctx, "/projects/"+path, token, &info); err != nil {
		c.fail("fetch project", err, "project_url", projectURL)
		return nil
	}
	if info == nil || info.ID == 0 {
		c.fail("fetch project", errEmptyProject, "project_url", projectURL)
		return nil
	}
	return info
}

// FetchProjectMembers returns every member of the project, including
// inherited members. It returns an empty slice on failure.
func (c *Client) FetchProjectMembers(ctx context.Context, projectID int, token string) []model.ProjectMember {
	return fetchList[model.ProjectMember](ctx, c, "fetch members", projectID, "/members/all", token)
}

// FetchCommits returns the most recent commits on the default branch.
func (c *Client) FetchCommits(ctx context.Context, projectID int, token string) []model.Commit {
	return fetchList[model.Commit](ctx, c, "fetch commits", projectID, "/repository/commits?per_page=100", token)
}

// FetchBranches returns the repository's branches.
func (c *Client) FetchBranches(ctx context.Context, projectID int, token string) []model.Branch {
	return fetchList[model.Branch](ctx, c, "fetch branches", projectID, "/repository/branches?per_page=100", token)
}

// FetchMergeRequests returns merge requests in every state.
func (c *Client) FetchMergeRequests(ctx context.Context, projectID int, token string) []model.MergeRequest {
	return fetchList[model.MergeRequest](ctx, c, "fetch merge requests", projectID, "/merge_requests?state=all&per_page=100", token)
}

// fetchList never returns nil: a failure or a null body yields an empty slice.
func fetchList[T any](ctx context.Context, c *Client, op string, projectID int, suffix, token string) []T {
	var items []T
	if err := c.get(ctx, projectEndpoint(projectID, suffix), token, &items); err != nil {
		c.fail(op, err, "project_id", projectID)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func projectEndpoint(projectID int, suffix string) string {
	return "/projects/" + strconv.Itoa(projectID) + suffix
}

func (c *Client) get(ctx context.Context, endpoint, token string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v4"+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("PRIVATE-TOKEN", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fail(op string, err error, args ...any) {
	c.logger.Warn("gitlab: "+op+" failed", append(args, "error", err)...)
	c.notifier.Notify(notify.Notification{
		Level:   notify.LevelError,
		Title:   "Failed to " + op,
		Message: describe(err),
	})
}

func describe(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return "Authentication failed. Check your access token."
		case http.StatusForbidden:
			return "Access denied. Your token lacks permission for this project."
		case http.StatusNotFound:
			return "Project not found. Check the URL and your access token."
		default:
			return fmt.Sprintf("The hosting service responded with status %d.", se.StatusCode)
		}
	}
	return err.Error()
}
