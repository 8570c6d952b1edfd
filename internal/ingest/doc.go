// Package ingest assembles streamed PCM audio into fixed-duration chunks for
// partial transcription and finalizes the full meeting WAV.
package ingest
