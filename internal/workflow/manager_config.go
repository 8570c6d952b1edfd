package workflow

import "quorum/internal/queue"

// ConfigureStages registers the concrete stage handlers the workflow will
// run. Handlers left nil are skipped; the first configured stage whose start
// status matches an item picks it up, so skipping an optional stage lets the
// next one claim its start status.
func (m *Manager) ConfigureStages(set StageSet) {
	stages := make([]pipelineStage, 0, 6)

	retrieverStart := queue.StatusMerged
	if set.Analyzer != nil {
		stages = append(stages, pipelineStage{
			name:             "analyzer",
			handler:          set.Analyzer,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusAnalyzing,
			doneStatus:       queue.StatusAnalyzed,
		})
	}
	if set.Merger != nil {
		stages = append(stages, pipelineStage{
			name:             "merger",
			handler:          set.Merger,
			startStatus:      queue.StatusAnalyzed,
			processingStatus: queue.StatusMerging,
			doneStatus:       queue.StatusMerged,
		})
	}
	summarizerStart := retrieverStart
	if set.Retriever != nil {
		stages = append(stages, pipelineStage{
			name:             "retriever",
			handler:          set.Retriever,
			startStatus:      retrieverStart,
			processingStatus: queue.StatusRetrievingContext,
			doneStatus:       queue.StatusContextRetrieved,
		})
		summarizerStart = queue.StatusContextRetrieved
	}
	extractorStart := summarizerStart
	if set.Summarizer != nil {
		stages = append(stages, pipelineStage{
			name:             "summarizer",
			handler:          set.Summarizer,
			startStatus:      summarizerStart,
			processingStatus: queue.StatusSummarizing,
			doneStatus:       queue.StatusSummarized,
		})
		extractorStart = queue.StatusSummarized
	}
	persisterStart := extractorStart
	if set.Extractor != nil {
		stages = append(stages, pipelineStage{
			name:             "extractor",
			handler:          set.Extractor,
			startStatus:      extractorStart,
			processingStatus: queue.StatusExtractingActions,
			doneStatus:       queue.StatusActionsExtracted,
		})
		persisterStart = queue.StatusActionsExtracted
	}
	if set.Persister != nil {
		stages = append(stages, pipelineStage{
			name:             "persister",
			handler:          set.Persister,
			startStatus:      persisterStart,
			processingStatus: queue.StatusStoring,
			doneStatus:       queue.StatusCompleted,
		})
	}

	byStart := make(map[queue.Status]pipelineStage, len(stages))
	order := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		byStart[stg.startStatus] = stg
		order = append(order, stg.startStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = byStart
	m.stageOrder = order
	m.mu.Unlock()
}
