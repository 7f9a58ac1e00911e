package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provider failures come in four shapes. Each type answers transient()
// so the retry decorator can classify without a type ladder: rate
// limits and outages are worth another attempt, truncation is a token
// budget problem, and a schema-violating body gets exactly one more
// chance (that case lives in retry.go).

type transientError interface {
	transient() bool
}

// ErrRateLimit is a 429 from the backend. RetryAfter, when the backend
// supplied one, overrides the backoff schedule.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error   { return e.Err }
func (e *ErrRateLimit) transient() bool { return true }

// ErrInvalidResponse means the completion did not satisfy the requested
// schema. Content carries the offending body for the event log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, 5xx responses, and the
// no-provider-configured case; generation degrades to fallback content.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error   { return e.Err }
func (e *ErrProviderUnavailable) transient() bool { return true }

// ErrMaxTokensExceeded means the completion was cut off at MaxTokens.
// Retrying the same request would truncate again.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

func (e *ErrMaxTokensExceeded) transient() bool { return false }
