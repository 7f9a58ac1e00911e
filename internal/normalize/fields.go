package normalize

import "strings"

// fieldResolver is an ordered list of keys tried in sequence against a
// raw decoded item; the first non-empty hit wins. Model output names the
// same field differently across locales and formats, so each canonical
// field declares its full synonym list here instead of probing ad hoc.
type fieldResolver []string

// String resolves a string-valued field.
func (r fieldResolver) String(m map[string]any) string {
	for _, key := range r {
		if s, ok := m[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Strings resolves an array-of-strings field. Non-string elements are
// stringified only when trivially representable; everything else is
// skipped.
func (r fieldResolver) Strings(m map[string]any) []string {
	for _, key := range r {
		arr, ok := m[key].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Any resolves a field of unknown shape (used for the correct answer,
// which may be a number, boolean, or string).
func (r fieldResolver) Any(m map[string]any) any {
	for _, key := range r {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

var (
	statementField = fieldResolver{
		"enunciado", "pergunta", "question", "statement", "texto",
		"text", "content", "title", "descricao", "description",
	}
	alternativesField = fieldResolver{"alternativas", "options", "alternatives", "opcoes"}
	answerField       = fieldResolver{"respostaCorreta", "correctAnswer", "correct_answer", "gabarito", "resposta"}
	explanationField  = fieldResolver{"explicacao", "explanation", "justificativa"}
	difficultyField   = fieldResolver{"dificuldade", "difficulty"}
	topicField        = fieldResolver{"tema", "topic"}
	typeField         = fieldResolver{"type", "tipo"}
	idField           = fieldResolver{"id"}
)
