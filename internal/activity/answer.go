package activity

import (
	"encoding/json"
	"fmt"
)

// AnswerKind discriminates the wire shape of a correct answer.
type AnswerKind int

const (
	AnswerNone  AnswerKind = iota // no answer recorded
	AnswerIndex                   // zero-based alternative index (multipla-escolha)
	AnswerBool                    // verdadeiro-falso
	AnswerText                    // free text (discursiva)
)

// Answer is the correct-answer union. The original payloads carry a
// number, a boolean, or a string under the same key depending on the
// question type; Answer preserves whichever shape was stored.
type Answer struct {
	Kind  AnswerKind
	Index int
	Bool  bool
	Text  string
}

// IndexAnswer returns an index-shaped answer.
func IndexAnswer(i int) Answer { return Answer{Kind: AnswerIndex, Index: i} }

// BoolAnswer returns a boolean-shaped answer.
func BoolAnswer(b bool) Answer { return Answer{Kind: AnswerBool, Bool: b} }

// TextAnswer returns a text-shaped answer.
func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerIndex:
		return json.Marshal(a.Index)
	case AnswerBool:
		return json.Marshal(a.Bool)
	case AnswerText:
		return json.Marshal(a.Text)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*a = Answer{}
	case float64:
		*a = IndexAnswer(int(val))
	case bool:
		*a = BoolAnswer(val)
	case string:
		*a = TextAnswer(val)
	default:
		return fmt.Errorf("unsupported answer shape %T", v)
	}
	return nil
}

func (a Answer) String() string {
	switch a.Kind {
	case AnswerIndex:
		return fmt.Sprintf("%d", a.Index)
	case AnswerBool:
		if a.Bool {
			return "Verdadeiro"
		}
		return "Falso"
	case AnswerText:
		return a.Text
	default:
		return ""
	}
}
