package activity

import (
	"encoding/json"
	"time"
)

// realContentFields is the fixed list of array-valued fields whose
// non-emptiness makes a payload "real". This predicate is the single
// authority used to arbitrate between competing stored copies; every
// layer (storage, sync, resolution) delegates here.
var realContentFields = []string{
	"questoes",
	"cards",
	"sections",
	"questions",
	"flashcards",
}

// HasRealContent reports whether v holds real generated content, as
// opposed to placeholder or metadata-only payloads. It accepts the
// canonical *Content, a decoded map, or raw JSON bytes; anything else
// (including nil) is not real content.
func HasRealContent(v any) bool {
	switch data := v.(type) {
	case nil:
		return false
	case *Content:
		if data == nil {
			return false
		}
		return len(data.Questions) > 0 || len(data.Cards) > 0 || len(data.Sections) > 0
	case Content:
		return len(data.Questions) > 0 || len(data.Cards) > 0 || len(data.Sections) > 0
	case map[string]any:
		return mapHasRealContent(data)
	case json.RawMessage:
		return rawHasRealContent(data)
	case []byte:
		return rawHasRealContent(data)
	}
	return false
}

func mapHasRealContent(m map[string]any) bool {
	for _, field := range realContentFields {
		if arr, ok := m[field].([]any); ok && len(arr) > 0 {
			return true
		}
	}
	return false
}

func rawHasRealContent(raw []byte) bool {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	return mapHasRealContent(m)
}

// Envelope wraps a stored payload for the enveloped activity types.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Wrap envelopes a payload, stamping the current time.
func Wrap(data json.RawMessage) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

// Unwrap returns the inner payload when raw parses as an envelope with a
// data field, and raw itself otherwise. Flat legacy records therefore
// pass through unchanged.
func Unwrap(raw json.RawMessage) json.RawMessage {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if len(env.Data) == 0 {
		return raw
	}
	return env.Data
}
