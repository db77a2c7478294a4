package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

func newTestMurf(t *testing.T, handler http.HandlerFunc) *Murf {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewMurf("test-key", "en-US-natalie", 5*time.Second, zerolog.Nop())
	c.BaseURL = srv.URL
	return c
}

func TestMurfSynthesize(t *testing.T) {
	c := newTestMurf(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/speech/generate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		var req murfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Text)
		assert.Equal(t, "en-US-natalie", req.VoiceID)
		assert.Equal(t, "mp3", req.Format)

		json.NewEncoder(w).Encode(map[string]string{"audioFile": "https://cdn.example/audio.mp3"})
	})

	url, err := c.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/audio.mp3", url)
}

func TestMurfMissingKey(t *testing.T) {
	c := NewMurf("", "en-US-natalie", time.Second, zerolog.Nop())
	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, fault.Config, fault.KindOf(err))
}

func TestMurfUpstreamRejection(t *testing.T) {
	c := newTestMurf(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"errorMessage": "invalid voice"})
	})

	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
	fe := fault.As(err)
	require.NotNil(t, fe)
	assert.Equal(t, "invalid voice", fe.Upstream["errorMessage"])
}

func TestMurfNoAudioURL(t *testing.T) {
	c := newTestMurf(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, fault.NotFoundUpstream, fault.KindOf(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("a", CharacterLimit+500)
	assert.Len(t, Truncate(long), CharacterLimit)

	// Rune-safe: multibyte text is clipped on character boundaries.
	wide := strings.Repeat("é", CharacterLimit+1)
	assert.Equal(t, CharacterLimit, len([]rune(Truncate(wide))))
}
