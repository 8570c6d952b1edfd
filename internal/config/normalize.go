package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeDiarizer()
	c.normalizeLLM()
	c.normalizeEmbeddings()
	c.normalizeVectorStore()
	c.normalizeRetrieval()
	c.normalizeIngest()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StageDir, err = expandPath(c.Paths.StageDir); err != nil {
		return fmt.Errorf("paths.stage_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcriber.BaseURL), "/")
	if c.Transcriber.BaseURL == "" {
		c.Transcriber.BaseURL = defaultTranscriberBaseURL
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	c.Transcriber.Language = strings.ToLower(strings.TrimSpace(c.Transcriber.Language))
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = defaultTranscriberTimeout
	}
}

func (c *Config) normalizeDiarizer() {
	c.Diarizer.BaseURL = strings.TrimRight(strings.TrimSpace(c.Diarizer.BaseURL), "/")
	if c.Diarizer.BaseURL == "" {
		c.Diarizer.BaseURL = defaultDiarizerBaseURL
	}
	if c.Diarizer.TimeoutSeconds <= 0 {
		c.Diarizer.TimeoutSeconds = defaultDiarizerTimeout
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("QUORUM_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) normalizeEmbeddings() {
	if c.Embeddings.APIKey == "" {
		if value, ok := os.LookupEnv("QUORUM_EMBEDDINGS_API_KEY"); ok {
			c.Embeddings.APIKey = strings.TrimSpace(value)
		}
	}
	c.Embeddings.BaseURL = strings.TrimSpace(c.Embeddings.BaseURL)
	if c.Embeddings.BaseURL == "" {
		c.Embeddings.BaseURL = defaultEmbeddingsBaseURL
	}
	if c.Embeddings.Dimensions <= 0 {
		c.Embeddings.Dimensions = defaultEmbeddingDimensions
	}
	if c.Embeddings.TimeoutSeconds <= 0 {
		c.Embeddings.TimeoutSeconds = defaultEmbeddingsTimeout
	}
}

func (c *Config) normalizeVectorStore() {
	c.VectorStore.URL = strings.TrimRight(strings.TrimSpace(c.VectorStore.URL), "/")
	if c.VectorStore.URL == "" {
		c.VectorStore.URL = defaultVectorStoreURL
	}
	c.VectorStore.Collection = strings.TrimSpace(c.VectorStore.Collection)
	if c.VectorStore.Collection == "" {
		c.VectorStore.Collection = defaultVectorCollection
	}
	if c.VectorStore.TimeoutSeconds <= 0 {
		c.VectorStore.TimeoutSeconds = defaultVectorStoreTimeout
	}
}

func (c *Config) normalizeRetrieval() {
	if c.Retrieval.Limit <= 0 {
		c.Retrieval.Limit = defaultRetrievalLimit
	}
	if c.Retrieval.ScoreThreshold <= 0 {
		c.Retrieval.ScoreThreshold = defaultScoreThreshold
	}
	if c.Retrieval.QueryChars <= 0 {
		c.Retrieval.QueryChars = defaultQueryChars
	}
}

func (c *Config) normalizeIngest() {
	if c.Ingest.SampleRate <= 0 {
		c.Ingest.SampleRate = defaultSampleRate
	}
	if c.Ingest.ChunkSeconds <= 0 {
		c.Ingest.ChunkSeconds = defaultChunkSeconds
	}
	if c.Ingest.MinPartialSeconds <= 0 {
		c.Ingest.MinPartialSeconds = defaultMinPartialSeconds
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval < 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.WorkerCount <= 0 {
		c.Workflow.WorkerCount = defaultWorkerCount
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}
	if c.Workflow.StageTimeoutSeconds <= 0 {
		c.Workflow.StageTimeoutSeconds = defaultStageTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
