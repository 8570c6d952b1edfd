package meeting

import (
	"fmt"
	"strings"
)

// FormatTranscript renders an attributed transcript as prompt-ready text,
// one line per segment: "[12.5s] Alice: we should ship on Friday".
func FormatTranscript(segments []AttributedSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = UnknownSpeaker
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%.1fs] %s: %s\n", seg.Start, speaker, text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatContext renders retrieved historical matches as prompt-ready text.
func FormatContext(matches []ContextMatch) string {
	if len(matches) == 0 {
		return "No historical context available."
	}
	var b strings.Builder
	b.WriteString("Historical context from previous meetings:\n")
	for _, match := range matches {
		speaker := match.Speaker
		if speaker == "" {
			speaker = UnknownSpeaker
		}
		fmt.Fprintf(&b, "[Meeting %s, Relevance: %.2f] %s: %s\n",
			match.MeetingID, match.Score, speaker, strings.TrimSpace(match.Excerpt))
	}
	return strings.TrimRight(b.String(), "\n")
}

// QueryExcerpt builds the retrieval query text from the leading transcript
// segments, bounded to maxChars runes.
func QueryExcerpt(segments []AttributedSegment, maxChars int) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	joined := strings.Join(parts, " ")
	if maxChars <= 0 {
		return joined
	}
	runes := []rune(joined)
	if len(runes) <= maxChars {
		return joined
	}
	return string(runes[:maxChars])
}
