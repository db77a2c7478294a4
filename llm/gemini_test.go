package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGemini("test-key", "gemini-1.5-flash", 5*time.Second, zerolog.Nop())
	c.BaseURL = srv.URL
	return c
}

func TestGeminiRespondDirectText(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "User: hello\n", req.Contents[0].Parts[0].Text)

		json.NewEncoder(w).Encode(map[string]string{"text": "direct answer"})
	})

	text, err := c.Respond(context.Background(), "User: hello\n")
	require.NoError(t, err)
	assert.Equal(t, "direct answer", text)
}

func TestGeminiRespondCandidates(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "nested answer"}}}},
			},
		})
	})

	text, err := c.Respond(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "nested answer", text)
}

// Direct text wins over candidates when both are present.
func TestGeminiExtractionOrder(t *testing.T) {
	resp := &geminiResponse{Text: "direct"}
	resp.Candidates = []struct {
		Content geminiContent `json:"content"`
	}{{Content: geminiContent{Parts: []geminiPart{{Text: "nested"}}}}}
	assert.Equal(t, "direct", extractGeminiText(resp))
}

func TestGeminiEmptyResponseIsPlaceholder(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	text, err := c.Respond(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, Placeholder, text)
}

func TestGeminiMissingKey(t *testing.T) {
	c := NewGemini("", "gemini-1.5-flash", time.Second, zerolog.Nop())
	_, err := c.Respond(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, fault.Config, fault.KindOf(err))
}

func TestGeminiUpstreamError(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "quota exceeded"}})
	})

	_, err := c.Respond(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
}

func TestOpenAIMissingKey(t *testing.T) {
	c := NewOpenAI("", "gpt-4o-mini")
	_, err := c.Respond(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, fault.Config, fault.KindOf(err))
}
