package activity

import "time"

// Type identifies the kind of educational activity and therefore the
// shape of its content body. The set is open: legacy records may carry
// types not listed here and are handled with the flat storage convention.
type Type string

const (
	TypeExerciseList Type = "lista-exercicios"
	TypeQuiz         Type = "quiz-interativo"
	TypeFlashCards   Type = "flash-cards"
	TypeLessonPlan   Type = "plano-aula"
)

// Enveloped reports whether stored payloads for this type are wrapped in
// the {success, data, timestamp} envelope. Quiz-like types inherited the
// enveloped convention; everything else is stored flat. Reads always
// unwrap, so callers never see the difference.
func (t Type) Enveloped() bool {
	switch t {
	case TypeExerciseList, TypeQuiz, TypeFlashCards:
		return true
	}
	return false
}

// Regenerable reports whether an activity of this type has an on-demand
// regeneration pipeline the resolution chain may trigger when every
// source comes up empty.
func (t Type) Regenerable() bool {
	return t == TypeExerciseList || t == TypeQuiz
}

// QuestionType describes how a single question is answered.
type QuestionType string

const (
	MultipleChoice QuestionType = "multipla-escolha"
	OpenResponse   QuestionType = "discursiva"
	TrueFalse      QuestionType = "verdadeiro-falso"
)

// TrueFalseAlternatives is the fixed pair every verdadeiro-falso question
// carries, regardless of what the model returned.
var TrueFalseAlternatives = []string{"Verdadeiro", "Falso"}

// PlaceholderAlternatives is the fixed set used when a multiple-choice
// question arrives with fewer than two usable alternatives.
var PlaceholderAlternatives = []string{
	"Alternativa A",
	"Alternativa B",
	"Alternativa C",
	"Alternativa D",
}

// Question is a single canonical exercise item. JSON field names follow
// the wire format of the original payloads (PT-BR keys) so stored records
// round-trip unchanged.
type Question struct {
	// ID defaults to "questao-<1-based index>" when the source supplies none.
	ID string `json:"id"`

	Type QuestionType `json:"type"`

	// Statement is the question text. Always non-empty after normalization.
	Statement string `json:"enunciado"`

	// Alternatives is present for multipla-escolha (>= 2 entries) and
	// verdadeiro-falso (exactly the fixed pair). Nil for discursiva.
	Alternatives []string `json:"alternativas,omitempty"`

	// Answer shape depends on Type: index for multipla-escolha, boolean
	// for verdadeiro-falso, free text for discursiva.
	Answer Answer `json:"respostaCorreta"`

	Explanation string `json:"explicacao,omitempty"`
	Difficulty  string `json:"dificuldade,omitempty"`
	Topic       string `json:"tema,omitempty"`
}

// Valid reports whether the question satisfies the canonical-shape
// invariants: non-empty statement, and at least two alternatives for
// multiple choice.
func (q Question) Valid() bool {
	if q.Statement == "" {
		return false
	}
	if q.Type == MultipleChoice && len(q.Alternatives) < 2 {
		return false
	}
	return true
}

// Card is a single flash card.
type Card struct {
	ID         string `json:"id"`
	Front      string `json:"front"`
	Back       string `json:"back"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"dificuldade,omitempty"`
}

// Section is one block of a lesson plan.
type Section struct {
	ID              string `json:"id"`
	Title           string `json:"titulo"`
	Body            string `json:"conteudo"`
	DurationMinutes int    `json:"duracaoMinutos,omitempty"`
}

// Content is the display-ready body of an activity. One struct serves
// every activity type; the kind-specific arrays (Questions, Cards,
// Sections) are populated according to Type.
type Content struct {
	Title          string `json:"titulo"`
	Subject        string `json:"disciplina"`
	Theme          string `json:"tema"`
	QuestionModel  string `json:"tipoQuestoes,omitempty"`
	QuestionCount  int    `json:"numeroQuestoes,omitempty"`
	Difficulty     string `json:"dificuldade,omitempty"`
	Objectives     string `json:"objetivos,omitempty"`
	ProgramContent string `json:"conteudoPrograma,omitempty"`
	Notes          string `json:"observacoes,omitempty"`
	SchoolYear     string `json:"anoEscolaridade,omitempty"`

	Questions []Question `json:"questoes,omitempty"`
	Cards     []Card     `json:"cards,omitempty"`
	Sections  []Section  `json:"sections,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`

	// GeneratedByAI is false for fallback content, which is synthesized
	// locally rather than returned by the model.
	GeneratedByAI bool `json:"isGeneratedByAI"`

	// IsFallback marks placeholder content so the caller can disclose it.
	IsFallback bool `json:"isFallback,omitempty"`
}

// Activity pairs an identifier with a type and the latest known content.
// Identity is the (ID, Type) pair; content is mutable for the lifetime of
// the record.
type Activity struct {
	ID      string   `json:"id"`
	Type    Type     `json:"type"`
	Content *Content `json:"content,omitempty"`
}
