package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("RAG_SERVICE_URL", "http://rag:8000")

	cfg, err := Parse("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "/upload/", cfg.RAGConnectorCfg.UploadEndpoint)
	assert.Equal(t, "/chat/", cfg.RAGConnectorCfg.ChatEndpoint)
	assert.Equal(t, int64(20971520), cfg.FileUploadCfg.MaxFileSize)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestParse_MissingServiceURL(t *testing.T) {
	t.Setenv("RAG_SERVICE_URL", "")

	_, err := Parse("test")
	assert.Error(t, err)
}

func TestParse_ReportsEveryInvalidSetting(t *testing.T) {
	t.Setenv("RAG_SERVICE_URL", "rag:8000")
	t.Setenv("TELEGRAM_RATE_LIMIT_PER_MINUTE", "0")

	_, err := Parse("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAG_SERVICE_URL")
	assert.Contains(t, err.Error(), "TELEGRAM_RATE_LIMIT_PER_MINUTE")
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
