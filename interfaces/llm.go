package interfaces

import "context"

// Responder is the interface for the LLM adapter. Respond takes one flattened
// prompt string; multi-turn structure is encoded in the prompt by the caller,
// never passed separately.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}
