package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"quorum/internal/config"
	"quorum/internal/meeting"
	"quorum/internal/services"
)

// Client talks to the speaker-diarization service over HTTP.
type Client struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

// NewClient builds a diarization client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Diarizer.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		baseURL:    cfg.Diarizer.BaseURL,
		enabled:    cfg.Diarizer.Enabled,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether diarization is configured to run.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

type diarizeResponse struct {
	Segments []meeting.SpeakerSegment `json:"segments"`
}

// Diarize uploads the audio file and returns speaker turns ordered by
// start time. Failures map to the shared error taxonomy so callers can
// choose to degrade rather than abort.
func (c *Client) Diarize(ctx context.Context, audioPath string) ([]meeting.SpeakerSegment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "diarization", "read audio",
			"Audio file could not be read", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "diarization", "build request",
			"Failed to build diarization request", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, services.Wrap(services.ErrValidation, "diarization", "read audio",
			"Audio file could not be read", err)
	}
	if err := mw.Close(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "diarization", "build request",
			"Failed to build diarization request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/diarize", &body)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "diarization", "build request",
			"Failed to build diarization request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "diarization", "send request",
			"Diarization service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrUnavailable, "diarization", "send request",
			fmt.Sprintf("Diarization service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail)), nil)
	}

	var payload diarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "diarization", "decode response",
			"Diarization service returned undecodable payload", err)
	}
	return payload.Segments, nil
}

// Health probes the service readiness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("diarization health status %d", resp.StatusCode)
	}
	return nil
}
