// Package app assembles the service from its configuration: conversation
// store backend, provider adapters and the HTTP server.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/EasterCompany/dex-voice-agent/config"
	"github.com/EasterCompany/dex-voice-agent/endpoints"
	"github.com/EasterCompany/dex-voice-agent/history"
	"github.com/EasterCompany/dex-voice-agent/interfaces"
	"github.com/EasterCompany/dex-voice-agent/llm"
	"github.com/EasterCompany/dex-voice-agent/logger"
	"github.com/EasterCompany/dex-voice-agent/stt"
	"github.com/EasterCompany/dex-voice-agent/tts"
)

type App struct {
	Config    *config.Config
	Store     interfaces.ConversationStore
	STTClient interfaces.SpeechToText
	TTSClient interfaces.TextToSpeech
	LLMClient interfaces.Responder
	Server    *endpoints.Server
	Logger    zerolog.Logger
}

// New wires the application. Provider credentials are not validated here;
// each adapter reports a missing credential at request time so the service
// can boot with a partial configuration.
func New(cfg *config.Config) (*App, error) {
	log := logger.Component("app")

	store, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}

	sttClient, err := newSTTClient(cfg)
	if err != nil {
		return nil, err
	}

	ttsClient := tts.NewMurf(cfg.MurfKey, cfg.MurfVoiceID, cfg.TTSTimeout, logger.Component("tts"))

	llmClient, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}

	server := endpoints.NewServer(cfg, store, sttClient, ttsClient, llmClient)

	return &App{
		Config:    cfg,
		Store:     store,
		STTClient: sttClient,
		TTSClient: ttsClient,
		LLMClient: llmClient,
		Server:    server,
		Logger:    log,
	}, nil
}

func newStore(cfg *config.Config, log zerolog.Logger) (interfaces.ConversationStore, error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("no redis address configured, using in-memory conversation store")
		return history.NewMemoryStore(cfg.HistoryWindow), nil
	}
	store, err := history.NewRedisStore(history.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis conversation store: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis conversation store")
	return store, nil
}

func newSTTClient(cfg *config.Config) (interfaces.SpeechToText, error) {
	switch cfg.STTProvider {
	case config.STTProviderAssemblyAI:
		return stt.NewAssemblyAI(cfg.AssemblyAIKey, cfg.STTTimeout, logger.Component("stt")), nil
	case config.STTProviderGoogle:
		return stt.NewGoogle(cfg.GoogleSpeechKey), nil
	default:
		return nil, fmt.Errorf("unknown STT provider %q", cfg.STTProvider)
	}
}

func newLLMClient(cfg *config.Config) (interfaces.Responder, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderGemini:
		return llm.NewGemini(cfg.GeminiKey, cfg.GeminiModel, cfg.LLMTimeout, logger.Component("llm")), nil
	case config.LLMProviderOpenAI:
		return llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Close releases the store connection.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("error closing conversation store")
	}
}

// Shutdown drains the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Server.Shutdown(ctx)
}
