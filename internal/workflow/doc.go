// Package workflow advances queue items through the meeting processing
// stages.
//
// The Manager runs a pool of workers that each claim one item at a time,
// reclaim stale work via heartbeats, and feed items into registered stage
// handlers (analyzer, merger, retriever, summarizer, extractor, persister)
// while capturing progress and failure metadata. It also aggregates queue
// stats, calls stage health checks, and emits notifications when a meeting
// starts, completes, or fails.
//
// Add new lifecycle stages by extending StageSet, updating the queue status
// enums, and teaching the manager how to transition items; this package is
// the authoritative home for that coordination logic.
package workflow
