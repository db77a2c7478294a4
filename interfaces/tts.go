package interfaces

import "context"

// TextToSpeech is the interface for the synthesis adapter. Synthesize returns
// a URL to the synthesized audio artifact. The adapter never truncates; the
// caller enforces the provider character cap before invoking it.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
