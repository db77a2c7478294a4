package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EasterCompany/dex-voice-agent/app"
	"github.com/EasterCompany/dex-voice-agent/config"
	"github.com/EasterCompany/dex-voice-agent/logger"
	"github.com/EasterCompany/dex-voice-agent/tts"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Component("main")

	// 2. Prepare the upload directory and fallback audio assets
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("could not create upload directory")
	}
	if err := tts.EnsureFallbackAssets(context.Background(), cfg.UploadDir, logger.Component("tts")); err != nil {
		// A stale asset from a previous run still serves; keep booting.
		log.Error().Err(err).Msg("fallback audio generation failed")
	}

	// 3. Assemble the application
	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("fatal error during startup")
	}
	defer a.Close()

	// 4. Serve
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Run()
	}()

	// 5. Wait for shutdown signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	case sig := <-sc:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
