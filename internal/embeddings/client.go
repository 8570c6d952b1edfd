package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quorum/internal/config"
	"quorum/internal/services"
)

// Client produces embedding vectors via an OpenAI-compatible endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewClient builds an embedding client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Embeddings.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    cfg.Embeddings.BaseURL,
		apiKey:     cfg.Embeddings.APIKey,
		model:      cfg.Embeddings.Model,
		dimensions: cfg.Embeddings.Dimensions,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Dimensions returns the configured vector width.
func (c *Client) Dimensions() int {
	return c.dimensions
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, services.Wrap(services.ErrMalformed, "embedding", "decode response",
			"Embedding service returned no vectors", nil)
	}
	return vectors[0], nil
}

// EmbedBatch returns one embedding vector per input text, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, services.Wrap(services.ErrValidation, "embedding", "validate input",
				"Embedding input must not be empty", nil)
		}
	}

	encoded, err := json.Marshal(embeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "embedding", "encode request",
			"Failed to encode embedding request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "embedding", "build request",
			"Failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "embedding", "send request",
			"Embedding service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrUnavailable, "embedding", "send request",
			fmt.Sprintf("Embedding service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail)), nil)
	}

	var payload embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "embedding", "decode response",
			"Embedding service returned undecodable payload", err)
	}
	if len(payload.Data) != len(texts) {
		return nil, services.Wrap(services.ErrMalformed, "embedding", "decode response",
			fmt.Sprintf("Embedding service returned %d vectors for %d inputs", len(payload.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(texts))
	for _, entry := range payload.Data {
		if entry.Index < 0 || entry.Index >= len(vectors) {
			return nil, services.Wrap(services.ErrMalformed, "embedding", "decode response",
				fmt.Sprintf("Embedding index %d out of range", entry.Index), nil)
		}
		vectors[entry.Index] = entry.Embedding
	}
	return vectors, nil
}

// Health verifies the endpoint accepts a trivial embedding request.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Embed(ctx, "ping")
	return err
}
