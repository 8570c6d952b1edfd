package stt

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

// Client talks to the speech-to-text service over HTTP. The service accepts
// a multipart audio upload and returns timed transcript segments.
type Client struct {
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

// NewClient builds a transcription client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Transcriber.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		baseURL:    cfg.Transcriber.BaseURL,
		model:      cfg.Transcriber.Model,
		language:   cfg.Transcriber.Language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type transcribeResponse struct {
	Segments []meeting.TranscriptSegment `json:"segments"`
	Language string                      `json:"language"`
}

// Transcribe uploads the audio file and returns the ordered transcript
// segments. Transport failures and bad statuses map to ErrUnavailable;
// undecodable payloads map to ErrMalformed.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]meeting.TranscriptSegment, error) {
	body, contentType, err := c.buildUpload(audioPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcription", "read audio",
			"Audio file could not be read", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", body)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "build request",
			"Failed to build transcription request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "send request",
			"Speech-to-text service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "send request",
			fmt.Sprintf("Speech-to-text service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail)), nil)
	}

	var payload transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "transcription", "decode response",
			"Speech-to-text service returned undecodable payload", err)
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
		return fmt.Errorf("speech-to-text health status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) buildUpload(audioPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if c.model != "" {
		if err := mw.WriteField("model", c.model); err != nil {
			return nil, "", err
		}
	}
	if c.language != "" {
		if err := mw.WriteField("language", c.language); err != nil {
			return nil, "", err
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}
