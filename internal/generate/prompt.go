package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `Você é um professor experiente criando material didático para o ensino fundamental e médio brasileiro.

Regras:
- Gere conteúdo em português do Brasil, claro e adequado ao ano de escolaridade informado.
- Siga exatamente o formato JSON pedido, sem texto fora do JSON.
- Enunciados devem ser completos e autocontidos.
- Para múltipla escolha, forneça 4 alternativas com exatamente uma correta; distratores devem refletir erros comuns, não valores aleatórios.
- Para verdadeiro-falso, use as alternativas "Verdadeiro" e "Falso".
- Para questões discursivas, não inclua alternativas.
- respostaCorreta é o índice 0-based da alternativa correta em múltipla escolha, um booleano em verdadeiro-falso e um texto modelo em discursiva.
- Identifique as questões sequencialmente: questao-1, questao-2, e assim por diante.`

// taskLines describes, per activity type, what the model must produce.
var taskLines = map[string]string{
	"lista-exercicios": "Gere uma lista de exercícios com %d questões sobre o tema.",
	"quiz-interativo":  "Gere um quiz interativo com %d questões de múltipla escolha sobre o tema.",
	"flash-cards":      "Gere %d flash cards de estudo sobre o tema, cada um com frente (pergunta ou conceito) e verso (resposta ou definição).",
	"plano-aula":       "Gere um plano de aula completo sobre o tema, dividido em seções com título, conteúdo e duração em minutos. A soma das durações deve caber em uma aula de 50 minutos.",
}

// buildUserMessage renders the deterministic instruction block from the
// normalized form values.
func buildUserMessage(typ string, in FormInput) string {
	var b strings.Builder

	task, ok := taskLines[typ]
	if !ok {
		task = taskLines["lista-exercicios"]
	}
	fmt.Fprintf(&b, task, in.Count)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Título: %s\n", in.Title)
	fmt.Fprintf(&b, "Disciplina: %s\n", in.Subject)
	fmt.Fprintf(&b, "Tema: %s\n", in.Theme)
	fmt.Fprintf(&b, "Ano de escolaridade: %s\n", in.SchoolYear)
	fmt.Fprintf(&b, "Nível de dificuldade: %s\n", in.Difficulty)
	fmt.Fprintf(&b, "Modelo de questões: %s\n", in.QuestionModel)

	if in.Objectives != "" {
		fmt.Fprintf(&b, "\nObjetivos de aprendizagem:\n%s\n", in.Objectives)
	}
	if in.Sources != "" {
		fmt.Fprintf(&b, "\nFontes de referência:\n%s\n", in.Sources)
	}
	if in.Notes != "" {
		fmt.Fprintf(&b, "\nObservações do professor:\n%s\n", in.Notes)
	}

	return strings.TrimRight(b.String(), "\n")
}
