package config

const (
	defaultStageDir            = "~/.local/share/quorum/stage"
	defaultLogDir              = "~/.local/share/quorum/logs"
	defaultAPIBind             = "127.0.0.1:7312"
	defaultTranscriberBaseURL  = "http://127.0.0.1:9090"
	defaultTranscriberModel    = "large-v3-turbo"
	defaultTranscriberLanguage = "en"
	defaultTranscriberTimeout  = 900
	defaultDiarizerBaseURL     = "http://127.0.0.1:9091"
	defaultDiarizerTimeout     = 900
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/quorum-audio/quorum"
	defaultLLMTitle            = "Quorum Meeting Analysis"
	defaultLLMTimeout          = 120
	defaultEmbeddingsBaseURL   = "http://127.0.0.1:9092/v1/embeddings"
	defaultEmbeddingsModel     = "all-MiniLM-L6-v2"
	defaultEmbeddingDimensions = 384
	defaultEmbeddingsTimeout   = 60
	defaultVectorStoreURL      = "http://127.0.0.1:6333"
	defaultVectorCollection    = "meeting_transcripts"
	defaultVectorStoreTimeout  = 30
	defaultRetrievalLimit      = 5
	defaultScoreThreshold      = 0.7
	defaultQueryChars          = 500
	defaultSampleRate          = 16000
	defaultChunkSeconds        = 2.0
	defaultMinPartialSeconds   = 4.0
	defaultQueuePollInterval   = 5
	defaultErrorRetryInterval  = 10
	defaultWorkerCount         = 2
	defaultHeartbeatInterval   = 15
	defaultHeartbeatTimeout    = 120
	defaultStageTimeoutSeconds = 1800
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StageDir: defaultStageDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Transcriber: Transcriber{
			BaseURL:        defaultTranscriberBaseURL,
			Model:          defaultTranscriberModel,
			Language:       defaultTranscriberLanguage,
			TimeoutSeconds: defaultTranscriberTimeout,
		},
		Diarizer: Diarizer{
			Enabled:        true,
			BaseURL:        defaultDiarizerBaseURL,
			TimeoutSeconds: defaultDiarizerTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Embeddings: Embeddings{
			BaseURL:        defaultEmbeddingsBaseURL,
			Model:          defaultEmbeddingsModel,
			Dimensions:     defaultEmbeddingDimensions,
			TimeoutSeconds: defaultEmbeddingsTimeout,
		},
		VectorStore: VectorStore{
			URL:            defaultVectorStoreURL,
			Collection:     defaultVectorCollection,
			TimeoutSeconds: defaultVectorStoreTimeout,
		},
		Retrieval: Retrieval{
			Limit:          defaultRetrievalLimit,
			ScoreThreshold: defaultScoreThreshold,
			QueryChars:     defaultQueryChars,
		},
		Ingest: Ingest{
			SampleRate:        defaultSampleRate,
			ChunkSeconds:      defaultChunkSeconds,
			MinPartialSeconds: defaultMinPartialSeconds,
		},
		Workflow: Workflow{
			QueuePollInterval:   defaultQueuePollInterval,
			ErrorRetryInterval:  defaultErrorRetryInterval,
			WorkerCount:         defaultWorkerCount,
			HeartbeatInterval:   defaultHeartbeatInterval,
			HeartbeatTimeout:    defaultHeartbeatTimeout,
			StageTimeoutSeconds: defaultStageTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completions:    true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
