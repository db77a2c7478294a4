package interfaces

import "context"

// SpeechToText is the interface for the transcription adapter. Transcribe
// sends raw audio bytes to the provider untouched and returns the transcript.
// No speech detected is an empty string, not an error.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
