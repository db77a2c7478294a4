// Package fault defines the typed error taxonomy shared by the adapters and
// the HTTP layer. Every failure that crosses a package boundary is a *Error
// carrying a Kind (what class of failure) and a Stage (which part of the
// pipeline produced it).
package fault

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failure for status-code mapping.
type Kind int

const (
	// Internal is anything unanticipated, including storage failures.
	Internal Kind = iota
	// Config means a required credential or setting is missing.
	Config
	// Upstream means an external provider rejected the request or errored.
	Upstream
	// Timeout means an outbound call exceeded its deadline.
	Timeout
	// Validation means required caller input was empty or missing.
	Validation
	// NotFoundUpstream means a provider reported success but returned no
	// usable payload.
	NotFoundUpstream
)

// Stage values identify which part of the pipeline failed. They appear
// verbatim in the error envelope.
const (
	StageInput   = "input"
	StageUpload  = "upload"
	StageSTT     = "stt"
	StageTTS     = "tts"
	StageLLM     = "llm"
	StageNetwork = "network"
	StageConfig  = "config"
)

// Error is a classified failure.
type Error struct {
	Kind     Kind
	Stage    string
	Message  string
	Upstream map[string]any // provider error payload, if one was returned
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with no underlying cause.
func New(kind Kind, stage, message string) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, stage, message string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Err: err}
}

// FromNetErr classifies an outbound HTTP transport failure, distinguishing a
// timeout from a connection failure.
func FromNetErr(stage string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Wrap(Timeout, StageNetwork, fmt.Sprintf("request for %s timed out", stage), err)
	}
	return Wrap(Upstream, StageNetwork, fmt.Sprintf("request for %s failed", stage), err)
}

// KindOf extracts the Kind from an error chain. Unclassified errors are
// Internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// As returns the *Error in the chain, or nil.
func As(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// StatusOf maps an error to the HTTP status code its Kind dictates.
func StatusOf(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Upstream:
		return http.StatusBadGateway
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		// Config, NotFoundUpstream and Internal all surface as 500.
		return http.StatusInternalServerError
	}
}
