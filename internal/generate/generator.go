// Package generate runs the per-type activity generation pipelines:
// normalize the form, build a deterministic prompt, call the provider
// with a structured-output schema, normalize whatever comes back, and
// fall back to placeholder content when nothing usable survives.
// Generation never fails: the caller always receives displayable
// content, with Notice set when it is a placeholder.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/contentsync"
	"github.com/ricardofaria/classforge/internal/fallback"
	"github.com/ricardofaria/classforge/internal/llm"
	"github.com/ricardofaria/classforge/internal/normalize"
)

// Result is the outcome of one generation run.
type Result struct {
	ActivityID string
	Type       activity.Type
	Content    *activity.Content

	// Notice is non-empty when the content is a fallback placeholder.
	Notice string

	// Report describes how the provider response was normalized.
	Report normalize.Report
}

type pipeline struct {
	provider llm.Provider
	sync     *contentsync.Service
	config   Config
	logf     func(format string, args ...any)
}

// Option configures a generator.
type Option func(*pipeline)

// WithSync pushes successful results into the content sync service,
// which handles persistence.
func WithSync(s *contentsync.Service) Option {
	return func(p *pipeline) { p.sync = s }
}

// WithConfig overrides the default generation config.
func WithConfig(cfg Config) Option {
	return func(p *pipeline) { p.config = cfg }
}

func newPipeline(provider llm.Provider, opts ...Option) *pipeline {
	p := &pipeline{
		provider: provider,
		config:   DefaultConfig(),
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExerciseListGenerator produces lista-exercicios activities.
type ExerciseListGenerator struct{ p *pipeline }

// NewExerciseListGenerator creates an exercise list generator.
func NewExerciseListGenerator(provider llm.Provider, opts ...Option) *ExerciseListGenerator {
	return &ExerciseListGenerator{p: newPipeline(provider, opts...)}
}

// Generate runs the pipeline. It never returns an error: failures yield
// fallback content with a Notice.
func (g *ExerciseListGenerator) Generate(ctx context.Context, input FormInput) *Result {
	return g.p.run(ctx, activity.TypeExerciseList, input)
}

// QuizGenerator produces quiz-interativo activities.
type QuizGenerator struct{ p *pipeline }

// NewQuizGenerator creates a quiz generator.
func NewQuizGenerator(provider llm.Provider, opts ...Option) *QuizGenerator {
	return &QuizGenerator{p: newPipeline(provider, opts...)}
}

func (g *QuizGenerator) Generate(ctx context.Context, input FormInput) *Result {
	return g.p.run(ctx, activity.TypeQuiz, input)
}

// FlashCardsGenerator produces flash-cards activities.
type FlashCardsGenerator struct{ p *pipeline }

// NewFlashCardsGenerator creates a flash cards generator.
func NewFlashCardsGenerator(provider llm.Provider, opts ...Option) *FlashCardsGenerator {
	return &FlashCardsGenerator{p: newPipeline(provider, opts...)}
}

func (g *FlashCardsGenerator) Generate(ctx context.Context, input FormInput) *Result {
	return g.p.run(ctx, activity.TypeFlashCards, input)
}

// LessonPlanGenerator produces plano-aula activities.
type LessonPlanGenerator struct{ p *pipeline }

// NewLessonPlanGenerator creates a lesson plan generator.
func NewLessonPlanGenerator(provider llm.Provider, opts ...Option) *LessonPlanGenerator {
	return &LessonPlanGenerator{p: newPipeline(provider, opts...)}
}

func (g *LessonPlanGenerator) Generate(ctx context.Context, input FormInput) *Result {
	return g.p.run(ctx, activity.TypeLessonPlan, input)
}

// ForType returns a run function for the given activity type, sharing
// one pipeline across types.
func ForType(typ activity.Type, provider llm.Provider, opts ...Option) func(context.Context, FormInput) *Result {
	p := newPipeline(provider, opts...)
	return func(ctx context.Context, input FormInput) *Result {
		return p.run(ctx, typ, input)
	}
}

var purposes = map[activity.Type]string{
	activity.TypeExerciseList: llm.PurposeExerciseList,
	activity.TypeQuiz:         llm.PurposeQuiz,
	activity.TypeFlashCards:   llm.PurposeFlashCards,
	activity.TypeLessonPlan:   llm.PurposeLessonPlan,
}

func (p *pipeline) run(ctx context.Context, typ activity.Type, input FormInput) *Result {
	input = input.withDefaults()
	if input.ActivityID == "" {
		input.ActivityID = uuid.NewString()
	}
	ctx = llm.WithPurpose(ctx, purposes[typ])

	nctx := normalize.Context{
		Title:         input.Title,
		Subject:       input.Subject,
		Theme:         input.Theme,
		SchoolYear:    input.SchoolYear,
		Count:         input.Count,
		Difficulty:    input.Difficulty,
		QuestionModel: input.QuestionModel,
	}

	content, report, err := p.generate(ctx, typ, input, nctx)
	notice := ""
	if err != nil {
		p.logf("generate: %s for %s failed, serving fallback: %v", typ, input.ActivityID, err)
		content = fallback.Content(typ, nctx)
		notice = fallback.RegenerateNotice
	}

	if p.sync != nil {
		p.sync.SetContent(ctx, input.ActivityID, typ, content)
	}

	return &Result{
		ActivityID: input.ActivityID,
		Type:       typ,
		Content:    content,
		Notice:     notice,
		Report:     report,
	}
}

// generate calls the provider and decodes the response for the type.
// Any error here means "serve fallback", it is never surfaced raw.
func (p *pipeline) generate(ctx context.Context, typ activity.Type, input FormInput, nctx normalize.Context) (*activity.Content, normalize.Report, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(string(typ), input)},
		},
		Schema:      schemaFor(typ),
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return nil, normalize.Report{Method: "none"}, err
	}

	content := &activity.Content{
		Title:         input.Title,
		Subject:       input.Subject,
		Theme:         input.Theme,
		QuestionModel: input.QuestionModel,
		Difficulty:    input.Difficulty,
		SchoolYear:    input.SchoolYear,
		Objectives:    input.Objectives,
		Notes:         input.Notes,
		GeneratedAt:   time.Now().UTC(),
		GeneratedByAI: true,
	}
	report := normalize.Report{Method: "json"}

	switch typ {
	case activity.TypeFlashCards:
		cards, err := decodeCards(resp.Content)
		if err != nil || len(cards) == 0 {
			return nil, report, fmt.Errorf("no usable cards in response")
		}
		content.Cards = cards
		content.QuestionCount = len(cards)

	case activity.TypeLessonPlan:
		sections, err := decodeSections(resp.Content)
		if err != nil || len(sections) == 0 {
			return nil, report, fmt.Errorf("no usable sections in response")
		}
		content.Sections = sections
		content.QuestionCount = len(sections)

	default:
		questions, rep := normalize.NormalizeWithReport(string(resp.Content), nctx)
		report = rep
		usable := questions[:0]
		for _, q := range questions {
			if q.Valid() {
				usable = append(usable, q)
			}
		}
		if len(usable) == 0 {
			return nil, report, fmt.Errorf("no usable questions in response")
		}
		content.Questions = usable
		content.QuestionCount = len(usable)
	}

	return content, report, nil
}

func schemaFor(typ activity.Type) *llm.Schema {
	switch typ {
	case activity.TypeQuiz:
		return QuizSchema
	case activity.TypeFlashCards:
		return FlashCardsSchema
	case activity.TypeLessonPlan:
		return LessonPlanSchema
	default:
		return ExerciseListSchema
	}
}

// rawCard tolerates the Portuguese and English spellings seen in
// provider output.
type rawCard struct {
	ID         string `json:"id"`
	Front      string `json:"front"`
	Frente     string `json:"frente"`
	Back       string `json:"back"`
	Verso      string `json:"verso"`
	Category   string `json:"categoria"`
	Difficulty string `json:"dificuldade"`
}

func decodeCards(raw json.RawMessage) ([]activity.Card, error) {
	var body struct {
		Cards []rawCard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(normalize.ExciseJSON(normalize.StripFences(string(raw)))), &body); err != nil {
		return nil, err
	}

	var out []activity.Card
	for i, rc := range body.Cards {
		front := firstNonEmpty(rc.Front, rc.Frente)
		back := firstNonEmpty(rc.Back, rc.Verso)
		if front == "" || back == "" {
			continue
		}
		id := rc.ID
		if id == "" {
			id = fmt.Sprintf("card-%d", i+1)
		}
		out = append(out, activity.Card{
			ID:         id,
			Front:      front,
			Back:       back,
			Category:   rc.Category,
			Difficulty: rc.Difficulty,
		})
	}
	return out, nil
}

type rawSection struct {
	ID              string `json:"id"`
	Title           string `json:"titulo"`
	Body            string `json:"conteudo"`
	DurationMinutes int    `json:"duracaoMinutos"`
}

func decodeSections(raw json.RawMessage) ([]activity.Section, error) {
	var body struct {
		Sections []rawSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(normalize.ExciseJSON(normalize.StripFences(string(raw)))), &body); err != nil {
		return nil, err
	}

	var out []activity.Section
	for i, rs := range body.Sections {
		if rs.Title == "" && rs.Body == "" {
			continue
		}
		id := rs.ID
		if id == "" {
			id = fmt.Sprintf("secao-%d", i+1)
		}
		out = append(out, activity.Section{
			ID:              id,
			Title:           rs.Title,
			Body:            rs.Body,
			DurationMinutes: rs.DurationMinutes,
		})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
