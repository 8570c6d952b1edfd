package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quorum/internal/config"
	"quorum/internal/meeting"
	"quorum/internal/services"
)

// Qdrant implements Store against the Qdrant REST API.
type Qdrant struct {
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	httpClient *http.Client
}

var _ Store = (*Qdrant)(nil)

// NewQdrant builds a Qdrant-backed store from configuration.
func NewQdrant(cfg *config.Config) *Qdrant {
	timeout := time.Duration(cfg.VectorStore.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Qdrant{
		baseURL:    cfg.VectorStore.URL,
		apiKey:     cfg.VectorStore.APIKey,
		collection: cfg.VectorStore.Collection,
		vectorSize: cfg.Embeddings.Dimensions,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection with cosine distance when missing.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	status, _, err := q.do(ctx, http.MethodGet, "/collections/"+q.collection, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.vectorSize,
			"distance": "Cosine",
		},
	}
	status, detail, err := q.do(ctx, http.MethodPut, "/collections/"+q.collection, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return services.Wrap(services.ErrStore, "vector store", "create collection",
			fmt.Sprintf("Vector store returned status %d: %s", status, detail), nil)
	}
	return nil
}

// Upsert writes one point keyed by the meeting identifier, overwriting any
// previous vector for the same meeting.
func (q *Qdrant) Upsert(ctx context.Context, record Record, vector []float32) error {
	if record.MeetingID == "" {
		return services.Wrap(services.ErrValidation, "vector store", "upsert",
			"Meeting identifier required", nil)
	}
	if len(vector) == 0 {
		return services.Wrap(services.ErrValidation, "vector store", "upsert",
			"Vector must not be empty", nil)
	}
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     record.MeetingID,
				"vector": vector,
				"payload": map[string]any{
					"meeting_id":    record.MeetingID,
					"title":         record.Title,
					"excerpt":       record.Excerpt,
					"speaker":       record.Speaker,
					"speaker_count": record.SpeakerCount,
					"timestamp":     record.Timestamp,
				},
			},
		},
	}
	status, detail, err := q.do(ctx, http.MethodPut, "/collections/"+q.collection+"/points?wait=true", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return services.Wrap(services.ErrStore, "vector store", "upsert",
			fmt.Sprintf("Vector store returned status %d: %s", status, detail), nil)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		Score   float64 `json:"score"`
		Payload struct {
			MeetingID string `json:"meeting_id"`
			Title     string `json:"title"`
			Excerpt   string `json:"excerpt"`
			Speaker   string `json:"speaker"`
		} `json:"payload"`
	} `json:"result"`
}

// Query runs a similarity search. The exclusion filter rides inside the
// request so the store never spends result slots on the querying meeting.
func (q *Qdrant) Query(ctx context.Context, vector []float32, excludeMeetingID string, limit int, scoreThreshold float64) ([]meeting.ContextMatch, error) {
	if limit <= 0 {
		return nil, nil
	}
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": scoreThreshold,
		"with_payload":    true,
	}
	if excludeMeetingID != "" {
		body["filter"] = map[string]any{
			"must_not": []map[string]any{
				{"key": "meeting_id", "match": map[string]any{"value": excludeMeetingID}},
			},
		}
	}
	status, detail, err := q.doDecode(ctx, http.MethodPost, "/collections/"+q.collection+"/points/search", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, services.Wrap(services.ErrStore, "vector store", "search",
			fmt.Sprintf("Vector store returned status %d", status), nil)
	}

	var payload searchResponse
	if err := json.Unmarshal(detail, &payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "vector store", "decode search response",
			"Vector store returned undecodable payload", err)
	}
	matches := make([]meeting.ContextMatch, 0, len(payload.Result))
	for _, hit := range payload.Result {
		matches = append(matches, meeting.ContextMatch{
			MeetingID: hit.Payload.MeetingID,
			Excerpt:   hit.Payload.Excerpt,
			Speaker:   hit.Payload.Speaker,
			Score:     hit.Score,
		})
	}
	return matches, nil
}

// Delete removes every point stored for a meeting.
func (q *Qdrant) Delete(ctx context.Context, meetingID string) error {
	if meetingID == "" {
		return services.Wrap(services.ErrValidation, "vector store", "delete",
			"Meeting identifier required", nil)
	}
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "meeting_id", "match": map[string]any{"value": meetingID}},
			},
		},
	}
	status, detail, err := q.do(ctx, http.MethodPost, "/collections/"+q.collection+"/points/delete?wait=true", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return services.Wrap(services.ErrStore, "vector store", "delete",
			fmt.Sprintf("Vector store returned status %d: %s", status, detail), nil)
	}
	return nil
}

// Health checks the service liveness endpoint.
func (q *Qdrant) Health(ctx context.Context) error {
	status, _, err := q.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("vector store health status %d", status)
	}
	return nil
}

func (q *Qdrant) do(ctx context.Context, method, path string, body any) (int, string, error) {
	status, raw, err := q.doDecode(ctx, method, path, body)
	if err != nil {
		return 0, "", err
	}
	return status, string(bytes.TrimSpace(raw)), nil
}

func (q *Qdrant) doDecode(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, services.Wrap(services.ErrStore, "vector store", "encode request",
				"Failed to encode vector store request", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, reader)
	if err != nil {
		return 0, nil, services.Wrap(services.ErrStore, "vector store", "build request",
			"Failed to build vector store request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.httpClient.Do(req)
	if err != nil {
		return 0, nil, services.Wrap(services.ErrStore, "vector store", "send request",
			"Vector store unreachable", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, services.Wrap(services.ErrStore, "vector store", "read response",
			"Failed to read vector store response", err)
	}
	return resp.StatusCode, raw, nil
}
