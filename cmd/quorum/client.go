package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quorum/internal/api"
)

// apiClient issues requests against the daemon HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(address string) *apiClient {
	base := strings.TrimSpace(address)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &apiClient{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("daemon returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("daemon returned %d", e.Status)
}

func isNotFound(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *apiClient) CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) (*api.Meeting, error) {
	var resp api.MeetingResponse
	if err := c.do(ctx, http.MethodPost, "/api/meetings", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Meeting.Meeting, nil
}

func (c *apiClient) ListMeetings(ctx context.Context, status string) ([]api.Meeting, error) {
	path := "/api/meetings"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var resp api.MeetingListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Meetings, nil
}

func (c *apiClient) GetMeeting(ctx context.Context, meetingID string) (*api.MeetingDetail, error) {
	var resp api.MeetingResponse
	if err := c.do(ctx, http.MethodGet, "/api/meetings/"+url.PathEscape(meetingID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Meeting, nil
}

func (c *apiClient) Summary(ctx context.Context, meetingID, level string) (*api.SummaryResponse, error) {
	path := "/api/meetings/" + url.PathEscape(meetingID) + "/summary"
	if level != "" {
		path += "?level=" + url.QueryEscape(level)
	}
	var resp api.SummaryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) RemoveMeeting(ctx context.Context, meetingID string) error {
	return c.do(ctx, http.MethodDelete, "/api/meetings/"+url.PathEscape(meetingID), nil, nil)
}

func (c *apiClient) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	req := struct {
		IDs []int64 `json:"ids,omitempty"`
	}{IDs: ids}
	var resp api.QueueMutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/retry", req, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (c *apiClient) ResetStuck(ctx context.Context) (int64, error) {
	var resp api.QueueMutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/reset", struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (c *apiClient) QueueHealth(ctx context.Context) (*api.QueueHealthResponse, error) {
	var resp api.QueueHealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/queue/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) TestNotification(ctx context.Context) (*api.NotificationTestResponse, error) {
	var resp api.NotificationTestResponse
	if err := c.do(ctx, http.MethodPost, "/api/notify/test", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var resp api.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp)
	if err != nil {
		var apiErr *apiError
		// An unhealthy daemon responds 503 with the same payload.
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
			return &resp, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := decodeErrorMessage(data)
		if out != nil && len(data) > 0 {
			// Keep any structured payload the error response carried.
			_ = json.Unmarshal(data, out)
		}
		return &apiError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
