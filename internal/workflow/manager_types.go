package workflow

import (
	"quorum/internal/queue"
	"quorum/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Analyzer   stage.Handler
	Merger     stage.Handler
	Retriever  stage.Handler
	Summarizer stage.Handler
	Extractor  stage.Handler
	Persister  stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}
