package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAREERAI_MODE", "")
	t.Setenv("CAREERAI_STORAGE_BACKEND", "")
	t.Setenv("CAREERAI_USE_MOCK_LLM", "")
	t.Setenv("CAREERAI_FREE_INTERVIEWS_PER_DAY", "")
	t.Setenv("CAREERAI_REQUEST_TIMEOUT", "")
	t.Setenv("CAREERAI_PORT", "")
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.True(t, cfg.UseMockLLM)
	assert.Equal(t, 3, cfg.FreeInterviewsPerDay)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoadGCPRequiresProject(t *testing.T) {
	t.Setenv("CAREERAI_MODE", "gcp")
	t.Setenv("CAREERAI_GCP_PROJECT", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("CAREERAI_MODE", "local")
	t.Setenv("CAREERAI_FREE_INTERVIEWS_PER_DAY", "many")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRealLLMNeedsCredentials(t *testing.T) {
	t.Setenv("CAREERAI_MODE", "local")
	t.Setenv("CAREERAI_USE_MOCK_LLM", "0")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("CAREERAI_GCP_PROJECT", "")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("GOOGLE_API_KEY", "key")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.UseMockLLM)
}
