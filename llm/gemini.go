package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini generates responses through the generateContent REST API.
type Gemini struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client

	logger zerolog.Logger
}

// NewGemini creates the adapter with the given per-request timeout.
func NewGemini(apiKey, model string, timeout time.Duration, logger zerolog.Logger) *Gemini {
	return &Gemini{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    defaultGeminiBaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	// Some response shapes carry the generated text at the top level.
	Text       string `json:"text"`
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Respond sends the prompt and extracts the generated text: the direct text
// field first, then the first candidate's first part. Neither yielding text
// is not an error; the fixed Placeholder is returned instead.
func (c *Gemini) Respond(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fault.New(fault.Config, fault.StageLLM, "Gemini API key not found")
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageLLM, "could not marshal Gemini request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fault.Wrap(fault.Internal, fault.StageLLM, "could not build Gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fault.FromNetErr(fault.StageLLM, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.Wrap(fault.Upstream, fault.StageLLM, "could not read Gemini response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := fault.New(fault.Upstream, fault.StageLLM, fmt.Sprintf("Gemini returned %s", resp.Status))
		var upstream map[string]any
		if json.Unmarshal(body, &upstream) == nil {
			fe.Upstream = upstream
		}
		return "", fe
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fault.Wrap(fault.Upstream, fault.StageLLM, "could not decode Gemini response", err)
	}

	text := extractGeminiText(&out)
	if text == "" {
		c.logger.Warn().Msg("Gemini returned no usable text, substituting placeholder")
		return Placeholder, nil
	}
	return text, nil
}

func extractGeminiText(resp *geminiResponse) string {
	if resp.Text != "" {
		return resp.Text
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text
	}
	return ""
}
