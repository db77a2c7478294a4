package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient environment does not leak into the assertions.
	for _, key := range []string{
		"PORT", "UPLOAD_DIR", "REDIS_ADDR", "HISTORY_WINDOW",
		"STT_PROVIDER", "LLM_PROVIDER", "TTS_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.HistoryWindow)
	assert.Equal(t, STTProviderAssemblyAI, cfg.STTProvider)
	assert.Equal(t, LLMProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "en-US-natalie", cfg.MurfVoiceID)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 20*time.Second, cfg.TTSTimeout)
	assert.Equal(t, 60*time.Second, cfg.STTTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HISTORY_WINDOW", "40")
	t.Setenv("STT_PROVIDER", "google")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("TTS_TIMEOUT_SECONDS", "5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 40, cfg.HistoryWindow)
	assert.Equal(t, STTProviderGoogle, cfg.STTProvider)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, 5*time.Second, cfg.TTSTimeout)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("HISTORY_WINDOW", "lots")
	t.Setenv("TTS_TIMEOUT_SECONDS", "-2")

	cfg := Load()

	assert.Equal(t, 0, cfg.HistoryWindow)
	assert.Equal(t, 20*time.Second, cfg.TTSTimeout)
}
