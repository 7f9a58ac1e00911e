package normalize

import (
	"strconv"
	"strings"

	"github.com/ricardofaria/classforge/internal/activity"
)

// letterIndex maps lettered answers ("b", "C)") to alternative indexes.
var letterIndex = map[byte]int{'a': 0, 'b': 1, 'c': 2, 'd': 3, 'e': 4}

// truthyTokens are the strings accepted as "true" for verdadeiro-falso
// answers expressed as free text.
var truthyTokens = map[string]bool{"true": true, "verdadeiro": true, "v": true}

// QuestionType maps a free-form type label to the canonical question
// type. Unrecognized labels default to multipla-escolha, matching the
// original pipeline.
func QuestionType(label string) activity.QuestionType {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "discursiva"),
		strings.Contains(l, "dissertativa"),
		strings.Contains(l, "aberta"):
		return activity.OpenResponse
	case strings.Contains(l, "verdadeiro"),
		strings.Contains(l, "falso"),
		strings.Contains(l, "v/f"),
		strings.Contains(l, "v ou f"):
		return activity.TrueFalse
	}
	return activity.MultipleChoice
}

// Alternatives coerces raw alternatives into the canonical set for the
// question type: none for discursiva, the fixed pair for
// verdadeiro-falso, and for multipla-escolha the supplied list capped at
// five — or the placeholder set when fewer than two usable entries came
// through.
func Alternatives(raw []string, qt activity.QuestionType) []string {
	switch qt {
	case activity.OpenResponse:
		return nil
	case activity.TrueFalse:
		return append([]string(nil), activity.TrueFalseAlternatives...)
	}
	if len(raw) >= 2 {
		if len(raw) > 5 {
			raw = raw[:5]
		}
		out := make([]string, len(raw))
		for i, alt := range raw {
			out[i] = strings.TrimSpace(alt)
		}
		return out
	}
	return append([]string(nil), activity.PlaceholderAlternatives...)
}

// CorrectAnswer coerces a raw answer value into the shape the question
// type requires. Unparseable values fall back to the type's default:
// index 0, true, or the empty string.
func CorrectAnswer(raw any, qt activity.QuestionType) activity.Answer {
	switch qt {
	case activity.TrueFalse:
		return trueFalseAnswer(raw)
	case activity.OpenResponse:
		if s, ok := raw.(string); ok {
			return activity.TextAnswer(s)
		}
		return activity.TextAnswer("")
	}
	return choiceAnswer(raw)
}

func trueFalseAnswer(raw any) activity.Answer {
	switch v := raw.(type) {
	case bool:
		return activity.BoolAnswer(v)
	case string:
		return activity.BoolAnswer(truthyTokens[strings.ToLower(strings.TrimSpace(v))])
	case float64:
		// Index 0 points at "Verdadeiro" in the fixed pair.
		return activity.BoolAnswer(v == 0)
	}
	return activity.BoolAnswer(true)
}

func choiceAnswer(raw any) activity.Answer {
	switch v := raw.(type) {
	case float64:
		return activity.IndexAnswer(int(v))
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return activity.IndexAnswer(n)
		}
		if s != "" {
			if idx, ok := letterIndex[lowerByte(s[0])]; ok {
				return activity.IndexAnswer(idx)
			}
		}
	}
	return activity.IndexAnswer(0)
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
