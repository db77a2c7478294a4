// Package stt provides the transcription adapter. Audio bytes go to the
// provider untouched; the transcript comes back as plain text. An empty
// transcript means no speech was detected and is not an error.
package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

const defaultAssemblyAIBaseURL = "https://api.assemblyai.com/v2"

// AssemblyAI transcribes audio through the AssemblyAI REST API: upload the
// bytes, create a transcript job, poll until it settles.
type AssemblyAI struct {
	APIKey       string
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration

	logger zerolog.Logger
}

// NewAssemblyAI creates the adapter. timeout bounds the whole
// upload-create-poll sequence for one request.
func NewAssemblyAI(apiKey string, timeout time.Duration, logger zerolog.Logger) *AssemblyAI {
	return &AssemblyAI{
		APIKey:       apiKey,
		BaseURL:      defaultAssemblyAIBaseURL,
		HTTPClient:   &http.Client{Timeout: timeout},
		PollInterval: time.Second,
		logger:       logger,
	}
}

type assemblyAIUploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type assemblyAITranscript struct {
	ID     string `json:"id"`
	Status string `json:"status"` // queued | processing | completed | error
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads the audio and polls the transcript job to completion.
func (c *AssemblyAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if c.APIKey == "" {
		return "", fault.New(fault.Config, fault.StageSTT, "AssemblyAI API key not found")
	}

	uploadURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	id, err := c.createTranscript(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	for {
		tr, err := c.getTranscript(ctx, id)
		if err != nil {
			return "", err
		}
		switch tr.Status {
		case "completed":
			c.logger.Debug().Str("transcript_id", id).Msg("transcription completed")
			// A null/empty text with a completed job means no speech.
			return strings.TrimSpace(tr.Text), nil
		case "error":
			return "", fault.New(fault.Upstream, fault.StageSTT, tr.Error)
		}
		select {
		case <-ctx.Done():
			return "", fault.FromNetErr(fault.StageSTT, ctx.Err())
		case <-time.After(c.PollInterval):
		}
	}
}

func (c *AssemblyAI) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageSTT, "could not build upload request", err)
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out assemblyAIUploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", fault.New(fault.NotFoundUpstream, fault.StageSTT, "no upload URL returned from AssemblyAI")
	}
	return out.UploadURL, nil
}

func (c *AssemblyAI) createTranscript(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageSTT, "could not marshal transcript request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageSTT, "could not build transcript request", err)
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	var out assemblyAITranscript
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fault.New(fault.NotFoundUpstream, fault.StageSTT, "no transcript id returned from AssemblyAI")
	}
	return out.ID, nil
}

func (c *AssemblyAI) getTranscript(ctx context.Context, id string) (*assemblyAITranscript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, fault.StageSTT, "could not build poll request", err)
	}
	req.Header.Set("Authorization", c.APIKey)

	var out assemblyAITranscript
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AssemblyAI) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fault.FromNetErr(fault.StageSTT, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fault.Wrap(fault.Upstream, fault.StageSTT, "could not read AssemblyAI response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := fault.New(fault.Upstream, fault.StageSTT, fmt.Sprintf("AssemblyAI returned %s", resp.Status))
		var upstream map[string]any
		if json.Unmarshal(body, &upstream) == nil {
			fe.Upstream = upstream
		}
		return fe
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fault.Wrap(fault.Upstream, fault.StageSTT, "could not decode AssemblyAI response", err)
	}
	return nil
}
