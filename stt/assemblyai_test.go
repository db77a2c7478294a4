package stt

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

func newTestAssemblyAI(t *testing.T, handler http.Handler) *AssemblyAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewAssemblyAI("test-key", 5*time.Second, zerolog.Nop())
	c.BaseURL = srv.URL
	c.PollInterval = time.Millisecond
	return c
}

func TestAssemblyAITranscribe(t *testing.T) {
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/1"})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://cdn.example/upload/1", req["audio_url"])
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
	})
	mux.HandleFunc("/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "processing"
		text := ""
		if polls >= 2 {
			status = "completed"
			text = "hello world"
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": status, "text": text})
	})

	c := newTestAssemblyAI(t, mux)
	text, err := c.Transcribe(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.GreaterOrEqual(t, polls, 2)
}

func TestAssemblyAINoSpeechIsEmptyNotError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/2"})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-2", "status": "queued"})
	})
	mux.HandleFunc("/transcript/tr-2", func(w http.ResponseWriter, r *http.Request) {
		// Completed job with null text: silence in the recording.
		json.NewEncoder(w).Encode(map[string]any{"id": "tr-2", "status": "completed", "text": nil})
	})

	c := newTestAssemblyAI(t, mux)
	text, err := c.Transcribe(context.Background(), []byte("silence"))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestAssemblyAIJobError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/3"})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-3", "status": "queued"})
	})
	mux.HandleFunc("/transcript/tr-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-3", "status": "error", "error": "unsupported codec"})
	})

	c := newTestAssemblyAI(t, mux)
	_, err := c.Transcribe(context.Background(), []byte("junk"))
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestAssemblyAIMissingKey(t *testing.T) {
	c := NewAssemblyAI("", time.Second, zerolog.Nop())
	_, err := c.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.Equal(t, fault.Config, fault.KindOf(err))
}

func TestAssemblyAIUpstreamRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
	})

	c := newTestAssemblyAI(t, mux)
	_, err := c.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
	fe := fault.As(err)
	require.NotNil(t, fe)
	assert.Equal(t, "invalid api key", fe.Upstream["error"])
}
