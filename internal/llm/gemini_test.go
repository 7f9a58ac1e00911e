package llm

import (
	"testing"
)

func TestGeminiModelAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // literal ID
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchemaTranslation(t *testing.T) {
	schema := geminiSchema(questionListSchema().Definition)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT at the root, got %s", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "questoes" {
		t.Fatalf("unexpected required list: %v", schema.Required)
	}

	questoes := schema.Properties["questoes"]
	if questoes == nil || questoes.Type != "ARRAY" {
		t.Fatalf("expected ARRAY for questoes, got %+v", questoes)
	}

	item := questoes.Items
	if item == nil || item.Type != "OBJECT" {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if item.Properties["enunciado"].Type != "STRING" {
		t.Fatalf("expected STRING for enunciado, got %s", item.Properties["enunciado"].Type)
	}
	if item.Properties["respostaCorreta"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for respostaCorreta, got %s", item.Properties["respostaCorreta"].Type)
	}
	if got := len(item.Properties["tipo"].Enum); got != 3 {
		t.Fatalf("expected 3 tipo values, got %d", got)
	}
	if item.Properties["alternativas"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for alternativas items, got %s", item.Properties["alternativas"].Items.Type)
	}
}
