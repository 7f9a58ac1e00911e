package generate

import "github.com/ricardofaria/classforge/internal/llm"

// questionProperties is shared by the exercise-list and quiz schemas.
var questionProperties = map[string]any{
	"id": map[string]any{
		"type":        "string",
		"description": "Identificador sequencial, no formato questao-1, questao-2, ...",
	},
	"type": map[string]any{
		"type":        "string",
		"enum":        []any{"multipla-escolha", "discursiva", "verdadeiro-falso"},
		"description": "Tipo da questão",
	},
	"enunciado": map[string]any{
		"type":        "string",
		"description": "Enunciado completo da questão",
	},
	"alternativas": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Alternativas de resposta. 4 opções para múltipla escolha, [\"Verdadeiro\",\"Falso\"] para verdadeiro-falso, vazio para discursiva.",
	},
	"respostaCorreta": map[string]any{
		"description": "Índice da alternativa correta (0-based) para múltipla escolha, booleano para verdadeiro-falso, texto para discursiva.",
	},
	"explicacao": map[string]any{
		"type":        "string",
		"description": "Explicação da resposta correta",
	},
	"dificuldade": map[string]any{
		"type":        "string",
		"description": "facil, medio ou dificil",
	},
}

// ExerciseListSchema is the structured-output schema for exercise lists.
var ExerciseListSchema = &llm.Schema{
	Name:        "exercise-list",
	Description: "Uma lista de exercícios escolar com questões variadas",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questoes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": questionProperties,
					"required":   []any{"id", "type", "enunciado", "respostaCorreta"},
				},
			},
		},
		"required":             []any{"questoes"},
		"additionalProperties": false,
	},
}

// QuizSchema is the structured-output schema for interactive quizzes.
var QuizSchema = &llm.Schema{
	Name:        "interactive-quiz",
	Description: "Um quiz interativo com questões de múltipla escolha",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questoes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": questionProperties,
					"required":   []any{"id", "type", "enunciado", "alternativas", "respostaCorreta"},
				},
			},
		},
		"required":             []any{"questoes"},
		"additionalProperties": false,
	},
}

// FlashCardsSchema is the structured-output schema for flash card decks.
var FlashCardsSchema = &llm.Schema{
	Name:        "flash-cards",
	Description: "Um conjunto de flash cards de estudo",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"front":       map[string]any{"type": "string", "description": "Frente do card: pergunta ou conceito"},
						"back":        map[string]any{"type": "string", "description": "Verso do card: resposta ou definição"},
						"categoria":   map[string]any{"type": "string"},
						"dificuldade": map[string]any{"type": "string"},
					},
					"required": []any{"front", "back"},
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

// LessonPlanSchema is the structured-output schema for lesson plans.
var LessonPlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "Um plano de aula estruturado em seções",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":             map[string]any{"type": "string"},
						"titulo":         map[string]any{"type": "string"},
						"conteudo":       map[string]any{"type": "string"},
						"duracaoMinutos": map[string]any{"type": "integer"},
					},
					"required": []any{"titulo", "conteudo"},
				},
			},
		},
		"required":             []any{"sections"},
		"additionalProperties": false,
	},
}
