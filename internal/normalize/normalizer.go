package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ricardofaria/classforge/internal/activity"
)

// Normalize converts raw model output into canonical questions. It never
// returns an error; total failure yields an empty slice, which downstream
// code turns into fallback content.
func Normalize(raw string, ctx Context) []activity.Question {
	qs, _ := NormalizeWithReport(raw, ctx)
	return qs
}

// NormalizeWithReport is Normalize plus a description of which extraction
// path ran and how many items needed repair.
func NormalizeWithReport(raw string, ctx Context) ([]activity.Question, Report) {
	cleaned := StripFences(raw)

	if items, ok := decodeQuestionArray(cleaned); ok {
		return mapItems(items, ctx, "json")
	}

	items := extractFromText(cleaned, ctx.QuestionModel)
	if len(items) == 0 {
		return nil, Report{Method: "none"}
	}
	return mapItems(items, ctx, "text")
}

// StripFences removes a surrounding markdown code fence (```json ... ```
// or plain ``` ... ```) if present.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ExciseJSON cuts the first '{' through the last '}' out of text that may
// surround embedded JSON with prose. Returns the input unchanged when no
// object brackets are found.
func ExciseJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// decodeQuestionArray attempts the structured path: excise embedded JSON,
// parse it, and pull out the question array under any of its known names.
func decodeQuestionArray(s string) ([]map[string]any, bool) {
	trimmed := strings.TrimSpace(s)

	// A bare top-level array must be decoded before excising: ExciseJSON
	// would cut out only its first element object, which parses as a map
	// and hides the array.
	if strings.HasPrefix(trimmed, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return itemMaps(arr), true
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(ExciseJSON(trimmed)), &parsed); err != nil {
		return nil, false
	}

	for _, key := range []string{"questoes", "questions"} {
		if arr, ok := parsed[key].([]any); ok {
			return itemMaps(arr), true
		}
	}
	// Parsed fine but holds no question array; not a structured hit.
	return nil, false
}

func itemMaps(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// mapItems coerces each raw item into the canonical question shape,
// defaulting statements and alternatives so every output question
// satisfies Question.Valid.
func mapItems(items []map[string]any, ctx Context, method string) ([]activity.Question, Report) {
	report := Report{Total: len(items), Method: method}
	out := make([]activity.Question, 0, len(items))

	for i, item := range items {
		q, repaired := mapItem(i, item, ctx)
		if repaired {
			report.Invalid++
		} else {
			report.Valid++
		}
		out = append(out, q)
	}
	return out, report
}

func mapItem(i int, item map[string]any, ctx Context) (activity.Question, bool) {
	repaired := false

	qt := QuestionType(firstNonEmpty(typeField.String(item), ctx.QuestionModel))

	statement := statementField.String(item)
	if statement == "" {
		statement = fmt.Sprintf("Questão %d sobre %s", i+1, firstNonEmpty(ctx.Theme, ctx.Subject))
		repaired = true
	}

	rawAlts := alternativesField.Strings(item)
	if qt == activity.MultipleChoice && len(rawAlts) < 2 {
		repaired = true
	}

	id := idField.String(item)
	if id == "" {
		id = fmt.Sprintf("questao-%d", i+1)
	}

	return activity.Question{
		ID:           id,
		Type:         qt,
		Statement:    statement,
		Alternatives: Alternatives(rawAlts, qt),
		Answer:       CorrectAnswer(answerField.Any(item), qt),
		Explanation:  explanationField.String(item),
		Difficulty:   firstNonEmpty(difficultyField.String(item), strings.ToLower(ctx.Difficulty)),
		Topic:        firstNonEmpty(topicField.String(item), ctx.Theme),
	}, repaired
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
