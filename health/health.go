// Package health assembles the status snapshot served by the health endpoint.
package health

import (
	"context"
	"time"

	"github.com/EasterCompany/dex-voice-agent/config"
	"github.com/EasterCompany/dex-voice-agent/interfaces"
	"github.com/EasterCompany/dex-voice-agent/system"
)

// Status is the health endpoint payload.
type Status struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Store         string  `json:"store"`
	STT           string  `json:"stt"`
	TTS           string  `json:"tts"`
	LLM           string  `json:"llm"`
}

// Snapshot probes the store and reports adapter credential presence along
// with host resource usage. A degraded store flips the overall status but
// never fails the endpoint.
func Snapshot(ctx context.Context, cfg *config.Config, store interfaces.ConversationStore, startTime time.Time) Status {
	s := Status{
		Status:        "ok",
		UptimeSeconds: time.Since(startTime).Seconds(),
		Store:         "ok",
		STT:           credentialStatus(sttKey(cfg)),
		TTS:           credentialStatus(cfg.MurfKey),
		LLM:           credentialStatus(llmKey(cfg)),
	}

	if cpu, err := system.GetCPUUsage(); err == nil {
		s.CPUPercent = cpu
	}
	if memory, err := system.GetMemoryUsage(); err == nil {
		s.MemoryPercent = memory
	}

	if err := store.Ping(ctx); err != nil {
		s.Store = "unavailable"
		s.Status = "degraded"
	}
	return s
}

func sttKey(cfg *config.Config) string {
	if cfg.STTProvider == config.STTProviderGoogle {
		return cfg.GoogleSpeechKey
	}
	return cfg.AssemblyAIKey
}

func llmKey(cfg *config.Config) string {
	if cfg.LLMProvider == config.LLMProviderOpenAI {
		return cfg.OpenAIKey
	}
	return cfg.GeminiKey
}

func credentialStatus(key string) string {
	if key == "" {
		return "missing credential"
	}
	return "configured"
}
