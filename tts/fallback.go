package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Spoken text of the two pre-generated fallback assets.
const (
	FallbackText = "I'm having trouble connecting right now."
	NoSpeechText = "I'm sorry, I couldn't hear you. Please try again."
)

// File names of the fallback assets under the upload directory.
const (
	FallbackFileName = "fallback_audio.mp3"
	NoSpeechFileName = "no_speech_audio.mp3"
)

// translateTTSURL is the keyless Translate speech endpoint used only to
// bootstrap the fallback assets; live synthesis always goes through Murf.
const translateTTSURL = "https://translate.google.com/translate_tts"

// EnsureFallbackAssets generates the two fallback mp3 files under dir when
// they do not already exist. A generation failure is logged and reported but
// must not stop the service from starting; an existing asset from a previous
// run still serves.
func EnsureFallbackAssets(ctx context.Context, dir string, logger zerolog.Logger) error {
	assets := []struct {
		name string
		text string
	}{
		{FallbackFileName, FallbackText},
		{NoSpeechFileName, NoSpeechText},
	}

	var firstErr error
	for _, asset := range assets {
		path := filepath.Join(dir, asset.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		logger.Info().Str("file", asset.name).Msg("fallback audio not found, generating")
		if err := generateSpeechFile(ctx, asset.text, path); err != nil {
			logger.Error().Err(err).Str("file", asset.name).Msg("failed to generate fallback audio")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Info().Str("file", path).Msg("generated fallback audio")
	}
	return firstErr
}

func generateSpeechFile(ctx context.Context, text, path string) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", "en")
	q.Set("q", text)

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, translateTTSURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("could not build speech request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech endpoint returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create asset directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create asset file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("could not write asset file: %w", err)
	}
	return nil
}
