package normalize

import (
	"regexp"
	"strings"
)

// Line-oriented extraction for model output that failed to parse as JSON.
// Each rule classifies one line; the extractor walks the text building
// question items in the same raw-map shape the JSON path produces, so
// both paths share the coercion code in mapItem.

var questionStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+[.)]`),
	regexp.MustCompile(`(?i)^questão\s*\d+`),
	regexp.MustCompile(`(?i)^pergunta\s*\d+`),
	regexp.MustCompile(`^\d+\s*[-–]`),
}

var alternativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[a-e][.)]`),
	regexp.MustCompile(`(?i)^\([a-e]\)`),
	regexp.MustCompile(`(?i)^[a-e]\s*-`),
	regexp.MustCompile(`(?i)^(verdadeiro|falso)\b`),
}

var explanationPattern = regexp.MustCompile(`(?i)^(explicação|justificativa|resolução|resposta|gabarito|correção):`)

var (
	questionMarker    = regexp.MustCompile(`(?i)^(\d+[.)]\s*|questão\s*\d+[.):]?\s*|pergunta\s*\d+[.):]?\s*|\d+\s*[-–]\s*)`)
	alternativeMarker = regexp.MustCompile(`(?i)^([a-e][.)]\s*|\([a-e]\)\s*|[a-e]\s*-\s*)`)
)

func isQuestionStart(line string) bool { return matchesAny(line, questionStartPatterns) }
func isAlternative(line string) bool   { return matchesAny(line, alternativePatterns) }
func isExplanation(line string) bool   { return explanationPattern.MatchString(line) }

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func cleanQuestionText(line string) string {
	return strings.TrimSpace(questionMarker.ReplaceAllString(line, ""))
}

func cleanAlternativeText(line string) string {
	return strings.TrimSpace(alternativeMarker.ReplaceAllString(line, ""))
}

func cleanExplanationText(line string) string {
	return strings.TrimSpace(explanationPattern.ReplaceAllString(line, ""))
}

// extractFromText recovers question items from unstructured prose.
// Question starts open a new item; alternative and explanation lines
// attach to the open item; any other line continues the statement.
// When the requested question model is mixed (or absent), each item's
// type is inferred from its extracted alternatives.
func extractFromText(content, questionModel string) []map[string]any {
	var items []map[string]any
	var current map[string]any

	flush := func() {
		if current != nil && current["enunciado"] != "" {
			items = append(items, current)
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case isQuestionStart(line):
			flush()
			current = map[string]any{
				"enunciado":    cleanQuestionText(line),
				"alternativas": []any{},
			}
		case current != nil && isAlternative(line):
			alts := current["alternativas"].([]any)
			current["alternativas"] = append(alts, cleanAlternativeText(line))
		case current != nil && isExplanation(line):
			current["explicacao"] = cleanExplanationText(line)
		case current != nil:
			current["enunciado"] = current["enunciado"].(string) + " " + line
		}
	}
	flush()

	if questionModel == "" || strings.Contains(strings.ToLower(questionModel), "mista") {
		for _, item := range items {
			if t := classifyByContent(item); t != "" {
				item["type"] = t
			}
		}
	}
	return items
}

// classifyByContent infers a question type from the extracted
// alternatives: more than two means multiple choice, a verdadeiro/falso
// pair means true-false, and no alternatives means open response. Used
// only for the text path, where the model declared no type.
func classifyByContent(item map[string]any) string {
	alts, _ := item["alternativas"].([]any)
	switch {
	case len(alts) > 2:
		return "multipla-escolha"
	case len(alts) == 2:
		for _, a := range alts {
			s := strings.ToLower(a.(string))
			if strings.Contains(s, "verdadeiro") || strings.Contains(s, "falso") {
				return "verdadeiro-falso"
			}
		}
		return "multipla-escolha"
	case len(alts) == 0:
		return "discursiva"
	}
	return ""
}
