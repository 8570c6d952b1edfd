package attribution

import (
	"quorum/internal/meeting"
	"quorum/internal/services"
)

// Merge assigns a speaker label to every transcript segment by temporal
// overlap with the diarization turns. The single turn with the largest
// overlap wins; ties go to the turn with the earliest start. Segments with
// no overlapping turn, and every segment when diarization is empty, are
// labeled meeting.UnknownSpeaker.
//
// The output always has exactly one entry per input segment, in input
// order, with text and timing carried through unchanged.
func Merge(transcript []meeting.TranscriptSegment, speakers []meeting.SpeakerSegment) ([]meeting.AttributedSegment, error) {
	if err := validateTranscript(transcript); err != nil {
		return nil, err
	}
	attributed := make([]meeting.AttributedSegment, 0, len(transcript))
	for _, seg := range transcript {
		attributed = append(attributed, meeting.AttributedSegment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Speaker:    dominantSpeaker(seg, speakers),
			Confidence: seg.Confidence,
		})
	}
	return attributed, nil
}

func validateTranscript(transcript []meeting.TranscriptSegment) error {
	prevStart := -1.0
	for _, seg := range transcript {
		if seg.End < seg.Start {
			return services.Wrap(services.ErrInvariant, "merge", "validate",
				"transcript segment ends before it starts", nil)
		}
		if seg.Start < prevStart {
			return services.Wrap(services.ErrInvariant, "merge", "validate",
				"transcript segment starts are not monotonically increasing", nil)
		}
		prevStart = seg.Start
	}
	return nil
}

// dominantSpeaker returns the label of the single turn with the largest
// overlap against the segment. Overlap is never summed across a speaker's
// turns; ties go to the turn with the earliest start.
func dominantSpeaker(seg meeting.TranscriptSegment, speakers []meeting.SpeakerSegment) string {
	best := meeting.UnknownSpeaker
	bestOverlap := 0.0
	bestStart := 0.0
	for _, turn := range speakers {
		overlap := min(seg.End, turn.End) - max(seg.Start, turn.Start)
		if overlap <= 0 || turn.Speaker == "" {
			continue
		}
		switch {
		case overlap > bestOverlap:
		case overlap == bestOverlap && best != meeting.UnknownSpeaker && turn.Start < bestStart:
		default:
			continue
		}
		best = turn.Speaker
		bestOverlap = overlap
		bestStart = turn.Start
	}
	return best
}
