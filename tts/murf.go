// Package tts provides the synthesis adapter and the fallback audio assets
// the HTTP layer serves when a pipeline fails.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

// CharacterLimit is the provider's hard cap on synthesis input. Callers
// truncate before invoking the adapter; the adapter itself never does.
const CharacterLimit = 3000

const defaultMurfBaseURL = "https://api.murf.ai/v1"

// Murf synthesizes speech through the Murf generate API and returns the URL
// of the produced audio file.
type Murf struct {
	APIKey     string
	VoiceID    string
	BaseURL    string
	HTTPClient *http.Client

	logger zerolog.Logger
}

// NewMurf creates the adapter with the given per-request timeout.
func NewMurf(apiKey, voiceID string, timeout time.Duration, logger zerolog.Logger) *Murf {
	return &Murf{
		APIKey:     apiKey,
		VoiceID:    voiceID,
		BaseURL:    defaultMurfBaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type murfRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
	Format  string `json:"format"`
}

type murfResponse struct {
	AudioFile string `json:"audioFile"`
}

// Synthesize sends text to Murf and returns the audio URL. A 2xx response
// without an audio locator is a provider-side failure, not a caller error.
func (c *Murf) Synthesize(ctx context.Context, text string) (string, error) {
	if c.APIKey == "" {
		return "", fault.New(fault.Config, fault.StageTTS, "Murf API key not found")
	}

	payload, err := json.Marshal(murfRequest{Text: text, VoiceID: c.VoiceID, Format: "mp3"})
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageTTS, "could not marshal Murf request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/speech/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageTTS, "could not build Murf request", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fault.FromNetErr(fault.StageTTS, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.Wrap(fault.Upstream, fault.StageTTS, "could not read Murf response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Murf request failed")
		fe := fault.New(fault.Upstream, fault.StageTTS, "Murf request failed")
		var upstream map[string]any
		if json.Unmarshal(body, &upstream) == nil {
			fe.Upstream = upstream
		} else {
			fe.Upstream = map[string]any{"message": string(body)}
		}
		return "", fe
	}

	var out murfResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fault.Wrap(fault.NotFoundUpstream, fault.StageTTS, "could not decode Murf response", err)
	}
	if out.AudioFile == "" {
		return "", fault.New(fault.NotFoundUpstream, fault.StageTTS, "no audio URL returned from Murf")
	}
	c.logger.Debug().Str("audio_url", out.AudioFile).Msg("Murf synthesis complete")
	return out.AudioFile, nil
}

// Truncate clips text to the provider character cap, on rune boundaries.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= CharacterLimit {
		return text
	}
	return string(runes[:CharacterLimit])
}
