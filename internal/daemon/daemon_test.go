package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quorum/internal/api"
	"quorum/internal/config"
	"quorum/internal/daemon"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/stage"
	"quorum/internal/testsupport"
	"quorum/internal/vectorstore"
	"quorum/internal/workflow"
)

type stubStage struct{ name string }

func (s stubStage) Prepare(context.Context, *queue.Item) error { return nil }

func (s stubStage) Execute(context.Context, *queue.Item) error { return nil }

func (s stubStage) HealthCheck(context.Context) stage.Health { return stage.Healthy(s.name) }

type fakeVectors struct {
	deleted []string
}

func (f *fakeVectors) EnsureCollection(context.Context) error { return nil }

func (f *fakeVectors) Upsert(context.Context, vectorstore.Record, []float32) error { return nil }

func (f *fakeVectors) Query(context.Context, []float32, string, int, float64) ([]meeting.ContextMatch, error) {
	return nil, nil
}

func (f *fakeVectors) Delete(_ context.Context, meetingID string) error {
	f.deleted = append(f.deleted, meetingID)
	return nil
}

func (f *fakeVectors) Health(context.Context) error { return nil }

type fakeStreamTranscriber struct{}

func (fakeStreamTranscriber) Transcribe(context.Context, string) ([]meeting.TranscriptSegment, error) {
	return []meeting.TranscriptSegment{{Start: 0, End: 1, Text: "partial words"}}, nil
}

func newTestManager(cfg *config.Config, store *queue.Store) *workflow.Manager {
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), nil)
	mgr.ConfigureStages(workflow.StageSet{
		Analyzer:   stubStage{name: "analyzer"},
		Merger:     stubStage{name: "merger"},
		Retriever:  stubStage{name: "retriever"},
		Summarizer: stubStage{name: "summarizer"},
		Extractor:  stubStage{name: "extractor"},
		Persister:  stubStage{name: "persister"},
	})
	return mgr
}

func startDaemon(t *testing.T, cfg *config.Config, vectors vectorstore.Store) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	mgr := newTestManager(cfg, store)
	d, err := daemon.New(cfg, store, logging.NewNop(), mgr, daemon.Options{
		Vectors:     vectors,
		Transcriber: fakeStreamTranscriber{},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)
	return d, store
}

func apiURL(d *daemon.Daemon, path string) string {
	return "http://" + d.APIAddr() + path
}

func TestDaemonEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 60
	d, store := startDaemon(t, cfg, &fakeVectors{})
	defer d.Stop()

	second, err := daemon.New(cfg, store, logging.NewNop(), newTestManager(cfg, store), daemon.Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second daemon start to fail while lock is held")
	}
}

func TestAPIQueueMaintenance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 60
	d, store := startDaemon(t, cfg, &fakeVectors{})

	item := testsupport.NewMeeting(t, store, "Broken Meeting", "/tmp/broken.wav")
	item.SetFailed("summarizer", "completion service unreachable")
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	resp, err := http.Post(apiURL(d, "/api/queue/retry"), "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST retry failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry status %d", resp.StatusCode)
	}
	var mutation api.QueueMutationResponse
	if err := json.NewDecoder(resp.Body).Decode(&mutation); err != nil {
		t.Fatalf("decode retry response: %v", err)
	}
	if mutation.Updated != 1 {
		t.Fatalf("expected 1 retried item, got %d", mutation.Updated)
	}

	refreshed, err := store.GetByMeetingID(context.Background(), item.MeetingID)
	if err != nil {
		t.Fatalf("GetByMeetingID failed: %v", err)
	}
	if refreshed.Status != queue.StatusPending {
		t.Fatalf("expected pending after retry, got %s", refreshed.Status)
	}

	healthResp, err := http.Get(apiURL(d, "/api/queue/health"))
	if err != nil {
		t.Fatalf("GET queue health failed: %v", err)
	}
	defer healthResp.Body.Close()
	var health api.QueueHealthResponse
	if err := json.NewDecoder(healthResp.Body).Decode(&health); err != nil {
		t.Fatalf("decode queue health: %v", err)
	}
	if health.Total != 1 || health.Pending != 1 {
		t.Fatalf("unexpected queue health %+v", health)
	}
}

func TestAPIMeetingLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 60
	vectors := &fakeVectors{}
	d, _ := startDaemon(t, cfg, vectors)

	audio := filepath.Join(cfg.Paths.StageDir, "input.wav")
	testsupport.WriteFile(t, audio, 256)

	body, _ := json.Marshal(api.CreateMeetingRequest{
		AudioPath:    audio,
		Title:        "Planning",
		Participants: []string{"Alice", "Bob"},
	})
	resp, err := http.Post(apiURL(d, "/api/meetings"), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status %d", resp.StatusCode)
	}
	var created api.MeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	resp.Body.Close()
	meetingID := created.Meeting.MeetingID
	if meetingID == "" || created.Meeting.Title != "Planning" {
		t.Fatalf("unexpected created meeting %+v", created.Meeting)
	}

	resp, err = http.Get(apiURL(d, "/api/meetings"))
	if err != nil {
		t.Fatalf("GET list failed: %v", err)
	}
	var list api.MeetingListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(list.Meetings) != 1 || list.Meetings[0].MeetingID != meetingID {
		t.Fatalf("unexpected list %+v", list.Meetings)
	}

	resp, err = http.Get(apiURL(d, "/api/meetings/"+meetingID))
	if err != nil {
		t.Fatalf("GET meeting failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET meeting status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(apiURL(d, "/api/meetings/"+meetingID+"/summary?level=bogus"))
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus level status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, apiURL(d, "/api/meetings/"+meetingID), nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status %d", resp.StatusCode)
	}
	resp.Body.Close()
	if len(vectors.deleted) != 1 || vectors.deleted[0] != meetingID {
		t.Fatalf("expected vector delete for %s, got %v", meetingID, vectors.deleted)
	}

	resp, err = http.Get(apiURL(d, "/api/meetings/"+meetingID))
	if err != nil {
		t.Fatalf("GET after delete failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status after delete %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAPIStatusAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 60
	d, _ := startDaemon(t, cfg, &fakeVectors{})

	resp, err := http.Get(apiURL(d, "/api/status"))
	if err != nil {
		t.Fatalf("GET status failed: %v", err)
	}
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	if !status.Running || !status.Workflow.Running {
		t.Fatalf("expected running daemon, got %+v", status)
	}

	resp, err = http.Get(apiURL(d, "/api/health"))
	if err != nil {
		t.Fatalf("GET health failed: %v", err)
	}
	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	resp.Body.Close()
	if !health.Healthy || len(health.Stages) != 6 {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestStreamIngestsAndEnqueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 60
	cfg.Ingest.SampleRate = 16000
	cfg.Ingest.ChunkSeconds = 1.0
	d, store := startDaemon(t, cfg, &fakeVectors{})

	url := "ws://" + d.APIAddr() + "/api/stream/stream-meeting-1?title=Standup"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	pcm := make([]byte, 16000*2)
	if err := conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		t.Fatalf("write chunk failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var partial api.StreamEvent
	if err := conn.ReadJSON(&partial); err != nil {
		t.Fatalf("read partial failed: %v", err)
	}
	if partial.Type != "partial" || len(partial.Segments) != 1 || partial.Segments[0].Text != "partial words" {
		t.Fatalf("unexpected partial event %+v", partial)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("finalize")); err != nil {
		t.Fatalf("write finalize failed: %v", err)
	}
	var done api.StreamEvent
	if err := conn.ReadJSON(&done); err != nil {
		t.Fatalf("read enqueued failed: %v", err)
	}
	if done.Type != "enqueued" || done.MeetingID != "stream-meeting-1" {
		t.Fatalf("unexpected final event %+v", done)
	}

	item, err := store.GetByMeetingID(context.Background(), "stream-meeting-1")
	if err != nil {
		t.Fatalf("GetByMeetingID failed: %v", err)
	}
	if item == nil {
		t.Fatal("expected enqueued stream meeting")
	}
	if item.Title != "Standup" {
		t.Fatalf("title %q, want Standup", item.Title)
	}
	if !strings.HasSuffix(item.AudioPath, "meeting.wav") {
		t.Fatalf("unexpected audio path %q", item.AudioPath)
	}
}
