// Package embeddings wraps an OpenAI-compatible embedding endpoint used to
// vectorize transcript excerpts for similarity search.
package embeddings
