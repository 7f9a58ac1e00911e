package generate

import (
	"strconv"
	"strings"
)

// FormInput is the normalized authoring form. Incoming field names vary
// by caller generation (Portuguese and English spellings coexist in
// stored forms), so ParseForm resolves each through a synonym list and
// applies the standard defaults.
type FormInput struct {
	ActivityID    string
	Title         string
	Subject       string
	Theme         string
	SchoolYear    string
	Count         int
	Difficulty    string
	QuestionModel string
	Objectives    string
	Sources       string
	Notes         string
}

// Defaults applied when a field is absent from the form.
const (
	DefaultSubject       = "Português"
	DefaultTheme         = "Conteúdo Geral"
	DefaultSchoolYear    = "6º ano"
	DefaultCount         = 10
	DefaultDifficulty    = "Médio"
	DefaultQuestionModel = "multipla-escolha"
)

var formSynonyms = map[string][]string{
	"id":            {"id", "activityId", "atividadeId"},
	"title":         {"titulo", "title", "nome"},
	"subject":       {"disciplina", "subject", "materia"},
	"theme":         {"tema", "theme", "assunto", "topico"},
	"schoolYear":    {"anoEscolaridade", "schoolYear", "ano", "serie"},
	"count":         {"numeroQuestoes", "numberOfQuestions", "quantidade", "count"},
	"difficulty":    {"nivelDificuldade", "difficultyLevel", "dificuldade", "difficulty"},
	"questionModel": {"modeloQuestoes", "questionModel", "tipoQuestoes", "questionType"},
	"objectives":    {"objetivos", "objectives"},
	"sources":       {"fontes", "sources", "referencias"},
	"notes":         {"observacoes", "notes", "observations"},
}

// ParseForm resolves the raw form fields into a FormInput, first synonym
// with a non-empty value wins, defaults fill the rest.
func ParseForm(fields map[string]string) FormInput {
	in := FormInput{
		ActivityID:    formValue(fields, "id"),
		Title:         formValue(fields, "title"),
		Subject:       formValue(fields, "subject"),
		Theme:         formValue(fields, "theme"),
		SchoolYear:    formValue(fields, "schoolYear"),
		Difficulty:    formValue(fields, "difficulty"),
		QuestionModel: formValue(fields, "questionModel"),
		Objectives:    formValue(fields, "objectives"),
		Sources:       formValue(fields, "sources"),
		Notes:         formValue(fields, "notes"),
	}
	if n, err := strconv.Atoi(formValue(fields, "count")); err == nil && n > 0 {
		in.Count = n
	}
	return in.withDefaults()
}

func formValue(fields map[string]string, key string) string {
	for _, name := range formSynonyms[key] {
		if v := strings.TrimSpace(fields[name]); v != "" {
			return v
		}
	}
	return ""
}

func (in FormInput) withDefaults() FormInput {
	if in.Subject == "" {
		in.Subject = DefaultSubject
	}
	if in.Theme == "" {
		in.Theme = DefaultTheme
	}
	if in.SchoolYear == "" {
		in.SchoolYear = DefaultSchoolYear
	}
	if in.Count <= 0 {
		in.Count = DefaultCount
	}
	if in.Difficulty == "" {
		in.Difficulty = DefaultDifficulty
	}
	if in.QuestionModel == "" {
		in.QuestionModel = DefaultQuestionModel
	}
	if in.Title == "" {
		in.Title = "Atividade de " + in.Theme
	}
	return in
}
