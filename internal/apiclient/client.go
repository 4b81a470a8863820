package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wordburn/internal/api"
)

// Client talks to a running daemon's JSON API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New constructs a client for the daemon at baseURL (host:port or full URL).
func New(baseURL, token string) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed != "" && !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return &Client{
		baseURL: trimmed,
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Status fetches daemon diagnostics.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var out api.DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

// Jobs lists queue items, optionally filtered by status names.
func (c *Client) Jobs(ctx context.Context, statuses ...string) ([]api.ItemView, error) {
	path := "/api/jobs"
	if len(statuses) > 0 {
		values := url.Values{}
		for _, status := range statuses {
			values.Add("status", status)
		}
		path += "?" + values.Encode()
	}
	var out api.QueueListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Job fetches one queue item by numeric ID or run UUID.
func (c *Client) Job(ctx context.Context, identifier string) (api.ItemView, error) {
	var out api.QueueItemResponse
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(identifier), nil, &out)
	return out.Item, err
}

// Submit enqueues a source URL.
func (c *Client) Submit(ctx context.Context, sourceURL string) (api.ItemView, error) {
	var out api.SubmitResponse
	err := c.do(ctx, http.MethodPost, "/api/jobs", api.SubmitRequest{SourceURL: sourceURL}, &out)
	return out.Item, err
}

// Retry resets a failed job back to pending.
func (c *Client) Retry(ctx context.Context, identifier string) (int64, error) {
	var out api.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(identifier)+"/retry", nil, &out)
	return out.Affected, err
}

// ClearQueue removes queue items; scope is all, completed, or failed.
func (c *Client) ClearQueue(ctx context.Context, scope string) (int64, error) {
	path := "/api/queue/clear"
	if scope = strings.TrimSpace(scope); scope != "" {
		path += "?scope=" + url.QueryEscape(scope)
	}
	var out api.ActionResponse
	err := c.do(ctx, http.MethodPost, path, nil, &out)
	return out.Affected, err
}

// ResetQueue rolls in-flight items back to their stage start status.
func (c *Client) ResetQueue(ctx context.Context) (int64, error) {
	var out api.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/queue/reset", nil, &out)
	return out.Affected, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("daemon address not configured")
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon: %s (%s)", payload.Error, resp.Status)
	}
	return fmt.Errorf("daemon: %s", resp.Status)
}
