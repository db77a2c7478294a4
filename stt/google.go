package stt

import (
	"context"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

// Google transcribes audio through the Cloud Speech-to-Text v1 Recognize API.
// The client is created lazily so a missing credential surfaces as a request
// time configuration error rather than a boot failure.
type Google struct {
	APIKey string

	once    sync.Once
	client  *speech.Client
	initErr error
}

// NewGoogle creates the adapter. With an empty APIKey the client falls back
// to Application Default Credentials.
func NewGoogle(apiKey string) *Google {
	return &Google{APIKey: apiKey}
}

func (g *Google) ensureClient() error {
	g.once.Do(func() {
		var opts []option.ClientOption
		if g.APIKey != "" {
			opts = append(opts, option.WithAPIKey(g.APIKey))
		}
		g.client, g.initErr = speech.NewClient(context.Background(), opts...)
	})
	return g.initErr
}

// Transcribe runs synchronous recognition over the audio bytes. The container
// format is passed through untouched; encoding detection is left to the
// provider. No recognized speech yields an empty transcript.
func (g *Google) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := g.ensureClient(); err != nil {
		return "", fault.Wrap(fault.Config, fault.StageSTT, "could not create Google Speech client", err)
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:     speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
			LanguageCode: "en-US",
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fault.Wrap(fault.Upstream, fault.StageSTT, "Google Speech recognition failed", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Close releases the underlying client connection, if one was created.
func (g *Google) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
