// Package llm provides a retrying client for OpenRouter-compatible chat
// completion endpoints, plus tolerant JSON decoding for model output that
// arrives wrapped in code fences or prose.
package llm
