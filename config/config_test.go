package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
debug: true
upload_dir: data/uploads
ai_provider: gemini
model: gemini-2.0-flash
gemini_api_keys:
  - key-one
  - key-two
max_chunk_size: 800
overlap_size: 80
weaviate_store_config:
  host: http://localhost:8081
  text2vec: text2vec-transformers
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "data/uploads", cfg.UploadDir)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.GeminiAPIKeys)
	assert.Equal(t, 800, cfg.MaxChunkSize)
	assert.Equal(t, 80, cfg.OverlapSize)
	assert.Equal(t, "http://localhost:8081", cfg.WeaviateStoreConfig.Host)
	assert.Equal(t, "text2vec-transformers", cfg.WeaviateStoreConfig.Text2Vec)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
weaviate_store_config:
  host: http://localhost:8081
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "docqa", cfg.MongoDatabase)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, 500, cfg.MaxChunkSize)
	assert.Equal(t, 50, cfg.OverlapSize)
	assert.Equal(t, 6, cfg.SearchLimit)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
