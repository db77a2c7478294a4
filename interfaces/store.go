// Package interfaces defines the contracts between the request orchestrator
// and its collaborators.
package interfaces

import (
	"context"

	"github.com/EasterCompany/dex-voice-agent/history"
)

// ConversationStore owns per-session turn sequences. Sessions are created on
// first Append and never destroyed.
type ConversationStore interface {
	// Append creates a turn at the session's next sequence position.
	Append(ctx context.Context, sessionID, role, content string) (history.Turn, error)
	// History returns all turns in insertion order; an unknown session id
	// yields an empty slice, never an error.
	History(ctx context.Context, sessionID string) ([]history.Turn, error)
	// WithLock runs fn holding the session's exclusive lock, so a pipeline's
	// read-render-append sequence is atomic per session.
	WithLock(sessionID string, fn func() error) error
	// Ping reports backend availability.
	Ping(ctx context.Context) error
	Close() error
}
