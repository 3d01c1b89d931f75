package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	require.Equal(t, 50, cfg.ResultLimit)
	require.Equal(t, 5, cfg.HistoryLimit)
	require.Equal(t, "casual", cfg.Tone)
	require.NotEmpty(t, cfg.Vocabulary.MusicTopics)
	require.NotEmpty(t, cfg.Vocabulary.OffTopicTopics)
	// The redaction stage runs cooler and with more headroom than the rest.
	require.Less(t, cfg.Filter.Temperature, cfg.Validate.Temperature)
	require.Greater(t, cfg.Filter.MaxTokens, cfg.Validate.MaxTokens)
}

func TestLoadPipelineConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadPipelineConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultPipelineConfig().ResultLimit, cfg.ResultLimit)
}

func TestLoadPipelineConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
resultLimit: 25
tone: formal
vocabulary:
  musicTopics: ["artista", "canción"]
  offTopicTopics: ["cocina"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadPipelineConfig(path)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.ResultLimit)
	require.Equal(t, "formal", cfg.Tone)
	require.Equal(t, []string{"artista", "canción"}, cfg.Vocabulary.MusicTopics)
	// Unset fields keep their defaults.
	require.Equal(t, 5, cfg.HistoryLimit)
}

func TestLoadPipelineConfigMissingFile(t *testing.T) {
	_, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
