// Package analyze implements the first workflow stage: concurrent
// transcription and speaker diarization of the meeting audio.
package analyze
