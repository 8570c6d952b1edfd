// Package meeting defines the domain types flowing through the processing
// pipeline: transcript and speaker segments, attributed transcripts,
// historical context matches, summaries, and action items.
package meeting
