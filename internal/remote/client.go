// Package remote talks to a mirror instance of the workflow API over HTTP.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/service"

	"github.com/go-resty/resty/v2"
)

// Config configures the mirror client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client mirrors workflow operations to a remote instance that serves the
// same /api/v1 routes as this service.
type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/api/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)
	if cfg.APIKey != "" {
		c.SetHeader("X-API-Key", cfg.APIKey)
	}
	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r != nil && r.StatusCode() >= http.StatusInternalServerError
	})
	return &Client{http: c}, nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	req := c.http.R().SetContext(ctx).SetPathParams(params)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("remote %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &StatusError{
			Method:     method,
			Path:       resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) Register(ctx context.Context, in service.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/users/{username}", map[string]string{"username": username}, nil, nil)
}

func (c *Client) CreateRequest(ctx context.Context, in service.CreateRequestInput) error {
	return c.do(ctx, http.MethodPost, "/requests", nil, in, nil)
}

func (c *Client) ApproveRequest(ctx context.Context, requestID, employeeID, projectID string) error {
	body := map[string]string{"employeeId": employeeID, "projectId": projectID}
	return c.do(ctx, http.MethodPost, "/requests/{id}/approve", map[string]string{"id": requestID}, body, nil)
}

func (c *Client) RejectRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodDelete, "/requests/{id}", map[string]string{"id": requestID}, nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func phaseParams(projectID, phaseID string) map[string]string {
	return map[string]string{"id": projectID, "phaseId": phaseID}
}

func (c *Client) UploadFile(ctx context.Context, projectID, phaseID, fileName, uploadedBy string) error {
	body := map[string]string{"fileName": fileName, "uploadedBy": uploadedBy}
	return c.do(ctx, http.MethodPost, "/projects/{id}/phases/{phaseId}/files", phaseParams(projectID, phaseID), body, nil)
}

func (c *Client) ApprovePhase(ctx context.Context, projectID, phaseID, actor string) error {
	body := map[string]string{"actor": actor}
	return c.do(ctx, http.MethodPost, "/projects/{id}/phases/{phaseId}/approve", phaseParams(projectID, phaseID), body, nil)
}

func (c *Client) ReturnPhase(ctx context.Context, projectID, phaseID, actor string) error {
	body := map[string]string{"actor": actor}
	return c.do(ctx, http.MethodPost, "/projects/{id}/phases/{phaseId}/return", phaseParams(projectID, phaseID), body, nil)
}

func (c *Client) CompleteProject(ctx context.Context, projectID, completedBy string) error {
	body := map[string]string{"completedBy": completedBy}
	return c.do(ctx, http.MethodPost, "/projects/{id}/complete", map[string]string{"id": projectID}, body, nil)
}

func (c *Client) SendMessage(ctx context.Context, in service.SendMessageInput) error {
	return c.do(ctx, http.MethodPost, "/projects/{id}/chat", map[string]string{"id": in.ProjectID}, in, nil)
}

func (c *Client) CreateNotification(ctx context.Context, in service.CreateNotificationInput) error {
	return c.do(ctx, http.MethodPost, "/notifications", nil, in, nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/{id}/read", map[string]string{"id": id}, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return c.do(ctx, http.MethodPost, "/notifications/read-all", nil, body, nil)
}
