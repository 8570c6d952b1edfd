package main

import (
	"log/slog"

	"quorum/internal/actions"
	"quorum/internal/analyze"
	"quorum/internal/attribution"
	"quorum/internal/config"
	"quorum/internal/daemon"
	"quorum/internal/notifications"
	"quorum/internal/persist"
	"quorum/internal/queue"
	"quorum/internal/retrieval"
	"quorum/internal/stt"
	"quorum/internal/summarize"
	"quorum/internal/vectorstore"
	"quorum/internal/workflow"
)

func buildStages(cfg *config.Config, store *queue.Store, logger *slog.Logger) workflow.StageSet {
	return workflow.StageSet{
		Analyzer:   analyze.NewAnalyzer(cfg, store, logger),
		Merger:     attribution.NewHandler(cfg, store, logger),
		Retriever:  retrieval.NewRetriever(cfg, store, logger),
		Summarizer: summarize.NewSummarizer(cfg, store, logger),
		Extractor:  actions.NewExtractor(cfg, store, logger),
		Persister:  persist.NewWriter(cfg, store, logger),
	}
}

func buildNotifier(cfg *config.Config) notifications.Service {
	return notifications.NewService(cfg)
}

func buildDaemonOptions(cfg *config.Config) daemon.Options {
	return daemon.Options{
		Vectors:     vectorstore.NewQdrant(cfg),
		Transcriber: stt.NewClient(cfg),
	}
}
