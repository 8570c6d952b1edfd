// Package vectorstore persists one embedding per meeting and answers
// similarity queries for historical context retrieval. The Qdrant
// implementation speaks the REST API directly; points are keyed by meeting
// identifier so re-processing a meeting stays idempotent.
package vectorstore
