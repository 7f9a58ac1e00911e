package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

const questaoBody = `{"questoes":[{"id":"questao-1","enunciado":"Quanto é 7 x 8?","tipo":"multipla-escolha","alternativas":["54","56","58","64"],"respostaCorreta":1}]}`

func TestMockProviderPlaysScriptInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(questaoBody), Usage: Usage{InputTokens: 120, OutputTokens: 80, TotalTokens: 200}},
		MockResponse{Content: json.RawMessage(`{"questoes":[]}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "Gere uma lista de exercícios de multiplicação."}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != questaoBody {
		t.Fatalf("unexpected content: %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 120 {
		t.Fatalf("expected 120 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "Mais uma."}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"questoes":[]}` {
		t.Fatalf("unexpected content: %s", resp2.Content)
	}
}

func TestMockProviderExhaustedScriptReadsAsOutage(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from exhausted script")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProviderRecordsRequests(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "Você é um autor de atividades escolares.",
		Messages: []Message{{Role: RoleUser, Content: "Frações, 5º ano."}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last := mock.LastCall()
	if last.System != req.System {
		t.Fatalf("expected system %q, got %q", req.System, last.System)
	}
	if last.Messages[0].Content != "Frações, 5º ano." {
		t.Fatalf("unexpected message: %q", last.Messages[0].Content)
	}
}

func TestMockProviderScriptedError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProviderModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeExerciseList)
	if p := PurposeFrom(ctx); p != PurposeExerciseList {
		t.Fatalf("expected %q, got %q", PurposeExerciseList, p)
	}

	// An inner purpose shadows the outer one.
	inner := WithPurpose(ctx, PurposeLessonPlan)
	if p := PurposeFrom(inner); p != PurposeLessonPlan {
		t.Fatalf("expected %q, got %q", PurposeLessonPlan, p)
	}
	if p := PurposeFrom(ctx); p != PurposeExerciseList {
		t.Fatalf("outer context changed: %q", p)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
