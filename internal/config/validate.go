package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants that cannot be defaulted away.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRetrieval(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StageDir) == "" {
		return fmt.Errorf("paths.stage_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRetrieval() error {
	if c.Retrieval.ScoreThreshold < 0 || c.Retrieval.ScoreThreshold > 1 {
		return fmt.Errorf("retrieval.score_threshold must be within [0, 1], got %v", c.Retrieval.ScoreThreshold)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.SampleRate < 8000 {
		return fmt.Errorf("ingest.sample_rate must be at least 8000, got %d", c.Ingest.SampleRate)
	}
	if c.Ingest.MinPartialSeconds < c.Ingest.ChunkSeconds {
		return fmt.Errorf("ingest.min_partial_seconds must not be smaller than ingest.chunk_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
