// Package config loads service configuration from the environment. A .env
// file in the working directory is applied first when present, matching how
// the provider credentials are distributed in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider selector values.
const (
	STTProviderAssemblyAI = "assemblyai"
	STTProviderGoogle     = "google"
	LLMProviderGemini     = "gemini"
	LLMProviderOpenAI     = "openai"
)

// Config holds everything the service needs at boot.
type Config struct {
	Port      string
	LogLevel  string
	UploadDir string

	// Conversation store. RedisAddr empty selects the in-memory backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// HistoryWindow caps retained turns per session; 0 keeps full history.
	HistoryWindow int

	// Transcription.
	STTProvider     string
	AssemblyAIKey   string
	GoogleSpeechKey string
	STTTimeout      time.Duration

	// Synthesis.
	MurfKey     string
	MurfVoiceID string
	TTSTimeout  time.Duration

	// Responder.
	LLMProvider string
	GeminiKey   string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string
	LLMTimeout  time.Duration
}

// Load reads the configuration from the environment, applying defaults for
// everything that is unset. Missing provider credentials are not an error
// here; each adapter reports them at request time.
func Load() *Config {
	// Best effort; running without a .env file is normal in production.
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 0),

		STTProvider:     getEnv("STT_PROVIDER", STTProviderAssemblyAI),
		AssemblyAIKey:   getEnv("ASSEMBLYAI_API_KEY", ""),
		GoogleSpeechKey: getEnv("GOOGLE_SPEECH_API_KEY", ""),
		STTTimeout:      getEnvAsDuration("STT_TIMEOUT_SECONDS", 60*time.Second),

		MurfKey:     getEnv("MURF_API_KEY", ""),
		MurfVoiceID: getEnv("MURF_VOICE_ID", "en-US-natalie"),
		TTSTimeout:  getEnvAsDuration("TTS_TIMEOUT_SECONDS", 20*time.Second),

		LLMProvider: getEnv("LLM_PROVIDER", LLMProviderGemini),
		GeminiKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:  getEnvAsDuration("LLM_TIMEOUT_SECONDS", 30*time.Second),
	}
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer with a default fallback.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

// getEnvAsDuration reads a whole number of seconds with a default fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(valStr)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
