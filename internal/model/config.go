package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// VocabularyConfig holds the keyword sets used by the validator's cheap
// classification tier. The sets are configuration, not constants, so they can
// be tuned without recompiling.
type VocabularyConfig struct {
	MusicTopics    []string `json:"musicTopics" yaml:"musicTopics"`
	OffTopicTopics []string `json:"offTopicTopics" yaml:"offTopicTopics"`
}

// RetryConfig defines backoff behavior for an external call boundary.
type RetryConfig struct {
	MaxAttempts       int           `json:"maxAttempts" yaml:"maxAttempts"`
	InitialDelay      time.Duration `json:"initialDelay" yaml:"initialDelay"`
	MaxDelay          time.Duration `json:"maxDelay" yaml:"maxDelay"`
	BackoffMultiplier float64       `json:"backoffMultiplier" yaml:"backoffMultiplier"`
	Jitter            bool          `json:"jitter" yaml:"jitter"`
}

// StageTuning sets the model-call parameters for one stage.
type StageTuning struct {
	Temperature float32 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"maxTokens" yaml:"maxTokens"`
}

// PipelineConfig is the full configuration for the question pipeline.
type PipelineConfig struct {
	ResultLimit    int              `json:"resultLimit" yaml:"resultLimit"`
	HistoryLimit   int              `json:"historyLimit" yaml:"historyLimit"`
	Tone           string           `json:"tone" yaml:"tone"`
	Length         string           `json:"length" yaml:"length"`
	Contextualize  StageTuning      `json:"contextualize" yaml:"contextualize"`
	Validate       StageTuning      `json:"validate" yaml:"validate"`
	GenerateSQL    StageTuning      `json:"generateSql" yaml:"generateSql"`
	Filter         StageTuning      `json:"filter" yaml:"filter"`
	ModelRetry     RetryConfig      `json:"modelRetry" yaml:"modelRetry"`
	ExecutionRetry RetryConfig      `json:"executionRetry" yaml:"executionRetry"`
	Vocabulary     VocabularyConfig `json:"vocabulary" yaml:"vocabulary"`
}

// DefaultVocabulary mirrors the vocabulary the assistant ships with.
func DefaultVocabulary() VocabularyConfig {
	return VocabularyConfig{
		MusicTopics: []string{
			"artista", "cantante", "banda", "grupo", "músico",
			"canción", "tema", "track", "single",
			"álbum", "disco", "ep", "lp",
			"género", "estilo", "reggaetón", "pop", "rock", "jazz", "clásica",
			"playlist", "lista de reproducción",
			"letra", "lyrics",
			"duración", "tiempo",
			"popularidad", "éxitos", "hits",
			"año", "fecha", "lanzamiento",
			"colaboración", "featuring", "feat",
			"discografía", "repertorio",
		},
		OffTopicTopics: []string{
			"política", "religión", "deportes", "cocina", "medicina",
			"programación", "tecnología", "ciencia", "matemáticas",
			"historia", "geografía", "economía", "finanzas",
		},
	}
}

// DefaultPipelineConfig returns the configuration used when no file is given.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ResultLimit:   50,
		HistoryLimit:  5,
		Tone:          "casual",
		Length:        "normal",
		Contextualize: StageTuning{Temperature: 0.7, MaxTokens: 1000},
		Validate:      StageTuning{Temperature: 0.7, MaxTokens: 1000},
		GenerateSQL:   StageTuning{Temperature: 0.7, MaxTokens: 1000},
		// Redaction rewrites long answers, so it gets a colder model and a
		// bigger token budget than the other stages.
		Filter: StageTuning{Temperature: 0.3, MaxTokens: 2000},
		ModelRetry: RetryConfig{
			MaxAttempts:       3,
			InitialDelay:      1 * time.Second,
			MaxDelay:          30 * time.Second,
			BackoffMultiplier: 2.0,
			Jitter:            true,
		},
		ExecutionRetry: RetryConfig{
			MaxAttempts:       2,
			InitialDelay:      500 * time.Millisecond,
			MaxDelay:          5 * time.Second,
			BackoffMultiplier: 2.0,
			Jitter:            true,
		},
		Vocabulary: DefaultVocabulary(),
	}
}

// LoadPipelineConfig reads a YAML config file and overlays it on the
// defaults. Empty fields keep their default values; an empty path returns
// the defaults untouched.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 50
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	if len(cfg.Vocabulary.MusicTopics) == 0 {
		cfg.Vocabulary = DefaultVocabulary()
	}
	return cfg, nil
}
