package attribution_test

import (
	"errors"
	"testing"

	"quorum/internal/attribution"
	"quorum/internal/meeting"
	"quorum/internal/services"
)

func TestMergeAssignsDominantSpeaker(t *testing.T) {
	transcript := []meeting.TranscriptSegment{
		{Start: 0, End: 2, Text: "hello"},
		{Start: 2, End: 5, Text: "world"},
	}
	speakers := []meeting.SpeakerSegment{
		{Start: 0, End: 3, Speaker: "A"},
		{Start: 3, End: 5, Speaker: "B"},
	}
	got, err := attribution.Merge(transcript, speakers)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[0].Speaker != "A" {
		t.Errorf("segment 0 speaker = %q, want A", got[0].Speaker)
	}
	// Segment 1 overlaps A for 1s and B for 2s.
	if got[1].Speaker != "B" {
		t.Errorf("segment 1 speaker = %q, want B", got[1].Speaker)
	}
	if got[0].Text != "hello" || got[1].Text != "world" {
		t.Errorf("text not carried through: %+v", got)
	}
}

func TestMergeEmptyDiarization(t *testing.T) {
	transcript := []meeting.TranscriptSegment{
		{Start: 0, End: 1, Text: "solo"},
		{Start: 1, End: 2, Text: "speech"},
	}
	got, err := attribution.Merge(transcript, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for i, seg := range got {
		if seg.Speaker != meeting.UnknownSpeaker {
			t.Errorf("segment %d speaker = %q, want %q", i, seg.Speaker, meeting.UnknownSpeaker)
		}
	}
}

func TestMergeNoOverlapFallsBackToUnknown(t *testing.T) {
	transcript := []meeting.TranscriptSegment{{Start: 10, End: 12, Text: "late"}}
	speakers := []meeting.SpeakerSegment{{Start: 0, End: 5, Speaker: "A"}}
	got, err := attribution.Merge(transcript, speakers)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got[0].Speaker != meeting.UnknownSpeaker {
		t.Errorf("speaker = %q, want %q", got[0].Speaker, meeting.UnknownSpeaker)
	}
}

func TestMergeTieBreaksOnEarliestStart(t *testing.T) {
	transcript := []meeting.TranscriptSegment{{Start: 0, End: 4, Text: "tied"}}
	speakers := []meeting.SpeakerSegment{
		{Start: 2, End: 4, Speaker: "B"},
		{Start: 0, End: 2, Speaker: "A"},
	}
	got, err := attribution.Merge(transcript, speakers)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got[0].Speaker != "A" {
		t.Errorf("speaker = %q, want A (earliest tied turn)", got[0].Speaker)
	}
}

func TestMergeSplitTurnsDoNotAccumulate(t *testing.T) {
	// A speaks twice for a combined 3s, but B's single 2.5s turn is the
	// longest individual overlap and must win.
	transcript := []meeting.TranscriptSegment{{Start: 0, End: 6, Text: "long"}}
	speakers := []meeting.SpeakerSegment{
		{Start: 0, End: 1.5, Speaker: "A"},
		{Start: 1.5, End: 4, Speaker: "B"},
		{Start: 4, End: 5.5, Speaker: "A"},
	}
	got, err := attribution.Merge(transcript, speakers)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got[0].Speaker != "B" {
		t.Errorf("speaker = %q, want B (longest single turn)", got[0].Speaker)
	}
}

func TestMergeContainedTurn(t *testing.T) {
	transcript := []meeting.TranscriptSegment{{Start: 0, End: 10, Text: "contained"}}
	speakers := []meeting.SpeakerSegment{
		{Start: 3, End: 4, Speaker: "B"},
		{Start: 0, End: 10, Speaker: "A"},
	}
	got, err := attribution.Merge(transcript, speakers)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got[0].Speaker != "A" {
		t.Errorf("speaker = %q, want A", got[0].Speaker)
	}
}

func TestMergeRejectsNonMonotonicTranscript(t *testing.T) {
	transcript := []meeting.TranscriptSegment{
		{Start: 5, End: 7, Text: "second"},
		{Start: 0, End: 2, Text: "first"},
	}
	_, err := attribution.Merge(transcript, nil)
	if !errors.Is(err, services.ErrInvariant) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestMergeRejectsInvertedSegment(t *testing.T) {
	transcript := []meeting.TranscriptSegment{{Start: 4, End: 2, Text: "bad"}}
	_, err := attribution.Merge(transcript, nil)
	if !errors.Is(err, services.ErrInvariant) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestMergeEmptyTranscript(t *testing.T) {
	got, err := attribution.Merge(nil, []meeting.SpeakerSegment{{Start: 0, End: 1, Speaker: "A"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d segments", len(got))
	}
}
