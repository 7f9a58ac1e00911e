// Package fallback synthesizes placeholder activity content for when
// generation or normalization yields nothing usable. Output satisfies the
// same validity rules as normalized content, so rendering code has no
// special case; the IsFallback flag is the only disclosure.
package fallback

import (
	"fmt"
	"strings"
	"time"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/normalize"
)

// RegenerateNotice is surfaced to the user alongside fallback content.
const RegenerateNotice = "Este conteúdo foi gerado como fallback. Por favor, regenere para obter questões personalizadas."

// Questions produces exactly ctx.Count placeholder questions (five when
// the context carries no count), each referencing the requested theme and
// carrying the context's difficulty and topic.
func Questions(ctx normalize.Context) []activity.Question {
	count := ctx.Count
	if count <= 0 {
		count = 5
	}

	qt := normalize.QuestionType(ctx.QuestionModel)
	topic := ctx.Theme
	if topic == "" {
		topic = ctx.Subject
	}

	out := make([]activity.Question, count)
	for i := range out {
		out[i] = activity.Question{
			ID:           fmt.Sprintf("questao-%d", i+1),
			Type:         qt,
			Statement:    fmt.Sprintf("Questão %d sobre %s. [Conteúdo será gerado pela IA]", i+1, topic),
			Alternatives: normalize.Alternatives(nil, qt),
			Answer:       normalize.CorrectAnswer(nil, qt),
			Difficulty:   strings.ToLower(ctx.Difficulty),
			Topic:        ctx.Theme,
		}
	}
	return out
}

// Cards produces ctx.Count placeholder flash cards.
func Cards(ctx normalize.Context) []activity.Card {
	count := ctx.Count
	if count <= 0 {
		count = 5
	}

	out := make([]activity.Card, count)
	for i := range out {
		out[i] = activity.Card{
			ID:         fmt.Sprintf("card-%d", i+1),
			Front:      fmt.Sprintf("Conceito %d de %s", i+1, ctx.Theme),
			Back:       "[Conteúdo será gerado pela IA]",
			Category:   ctx.Theme,
			Difficulty: strings.ToLower(ctx.Difficulty),
		}
	}
	return out
}

// Sections produces placeholder lesson plan sections.
func Sections(ctx normalize.Context) []activity.Section {
	titles := []string{"Introdução", "Desenvolvimento", "Atividade prática", "Encerramento"}
	out := make([]activity.Section, len(titles))
	for i, title := range titles {
		out[i] = activity.Section{
			ID:              fmt.Sprintf("secao-%d", i+1),
			Title:           title,
			Body:            fmt.Sprintf("%s da aula sobre %s. [Conteúdo será gerado pela IA]", title, ctx.Theme),
			DurationMinutes: 10,
		}
	}
	return out
}

// Content builds a full placeholder body for the given activity type.
// The result always satisfies the real-content predicate at the list
// level even though individual items are generic.
func Content(typ activity.Type, ctx normalize.Context) *activity.Content {
	c := &activity.Content{
		Title:         ctx.Title,
		Subject:       ctx.Subject,
		Theme:         ctx.Theme,
		QuestionModel: ctx.QuestionModel,
		Difficulty:    ctx.Difficulty,
		SchoolYear:    ctx.SchoolYear,
		Notes:         RegenerateNotice,
		GeneratedAt:   time.Now().UTC(),
		GeneratedByAI: false,
		IsFallback:    true,
	}
	if c.Title == "" {
		c.Title = "Lista de Exercícios"
	}

	switch typ {
	case activity.TypeFlashCards:
		c.Cards = Cards(ctx)
		c.QuestionCount = len(c.Cards)
	case activity.TypeLessonPlan:
		c.Sections = Sections(ctx)
		c.QuestionCount = len(c.Sections)
	default:
		c.Questions = Questions(ctx)
		c.QuestionCount = len(c.Questions)
	}
	return c
}
