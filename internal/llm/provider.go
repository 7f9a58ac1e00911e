// Package llm is the generative backend for the activity pipelines.
// One Provider interface fronts Anthropic, OpenAI, Gemini, OpenRouter,
// and a scripted mock; decorators layer retry and request-event logging
// on top, and every schema-carrying response is checked against its
// JSON Schema before callers see it.
package llm

import (
	"context"
	"encoding/json"
)

// Normalized stop reasons shared by every backend.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopError     = "error"
)

// Provider produces one structured completion per call. Implementations
// translate Request into their native API and normalize the result.
type Provider interface {
	// Generate runs the request. When req.Schema is set the returned
	// Content is JSON already validated against it; otherwise Content
	// is the raw text of the completion.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is one generation call. Activity generation is single-turn:
// a system role, one user message carrying the form, and a schema.
type Request struct {
	// System sets the assistant's role, e.g. the activity-author
	// instructions.
	System string

	// Messages is the turn history, usually a single user message.
	Messages []Message

	// Schema, when set, switches the backend to its structured-output
	// mode and the response is validated against it.
	Schema *Schema

	// MaxTokens bounds the completion length.
	MaxTokens int

	// Temperature in [0.0, 1.0]; zero means deterministic.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role names the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema an activity pipeline expects back. Name is
// kebab-case ("exercise-list", "flash-cards") and doubles as the tool /
// format name on backends that need one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a normalized completion.
type Response struct {
	// Content holds the completion body. Validated JSON when the
	// request carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage is the token accounting reported by the backend.
	Usage Usage

	// Model is the model that actually served the call, which may be a
	// more specific ID than the one configured.
	Model string

	// StopReason is one of the Stop* constants.
	StopReason string
}

// Usage is per-request token accounting, fed into the event log.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
