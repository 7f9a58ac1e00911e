package activity

import (
	"encoding/json"
	"testing"
)

func TestTypeConventions(t *testing.T) {
	cases := []struct {
		typ         Type
		enveloped   bool
		regenerable bool
	}{
		{TypeExerciseList, true, true},
		{TypeQuiz, true, true},
		{TypeFlashCards, true, false},
		{TypeLessonPlan, false, false},
	}
	for _, c := range cases {
		if got := c.typ.Enveloped(); got != c.enveloped {
			t.Errorf("%s.Enveloped() = %t, want %t", c.typ, got, c.enveloped)
		}
		if got := c.typ.Regenerable(); got != c.regenerable {
			t.Errorf("%s.Regenerable() = %t, want %t", c.typ, got, c.regenerable)
		}
	}
}

func TestHasRealContent(t *testing.T) {
	question := Question{ID: "questao-1", Type: MultipleChoice, Statement: "?",
		Alternatives: []string{"a", "b"}}

	cases := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"nil pointer", (*Content)(nil), false},
		{"empty content", &Content{Title: "só metadados"}, false},
		{"questions", &Content{Questions: []Question{question}}, true},
		{"cards", &Content{Cards: []Card{{Front: "f", Back: "b"}}}, true},
		{"sections", &Content{Sections: []Section{{Title: "t"}}}, true},
		{"map with questoes", map[string]any{"questoes": []any{map[string]any{}}}, true},
		{"map with empty questoes", map[string]any{"questoes": []any{}}, false},
		{"map with flashcards", map[string]any{"flashcards": []any{1}}, true},
		{"raw json", json.RawMessage(`{"questions": [{}]}`), true},
		{"raw garbage", json.RawMessage(`not json`), false},
		{"unrelated type", 42, false},
	}
	for _, c := range cases {
		if got := HasRealContent(c.v); got != c.want {
			t.Errorf("%s: HasRealContent = %t, want %t", c.name, got, c.want)
		}
	}
}

func TestQuestionValid(t *testing.T) {
	cases := []struct {
		name string
		q    Question
		want bool
	}{
		{"valid MC", Question{Statement: "?", Type: MultipleChoice, Alternatives: []string{"a", "b"}}, true},
		{"empty statement", Question{Type: MultipleChoice, Alternatives: []string{"a", "b"}}, false},
		{"MC one alternative", Question{Statement: "?", Type: MultipleChoice, Alternatives: []string{"a"}}, false},
		{"discursiva no alternatives", Question{Statement: "?", Type: OpenResponse}, true},
		{"true-false pair", Question{Statement: "?", Type: TrueFalse, Alternatives: TrueFalseAlternatives}, true},
	}
	for _, c := range cases {
		if got := c.q.Valid(); got != c.want {
			t.Errorf("%s: Valid = %t, want %t", c.name, got, c.want)
		}
	}
}

func TestAnswerJSONRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		a    Answer
		wire string
	}{
		{"index", IndexAnswer(2), "2"},
		{"bool", BoolAnswer(true), "true"},
		{"text", TextAnswer("resposta modelo"), `"resposta modelo"`},
		{"none", Answer{}, "null"},
	}
	for _, c := range cases {
		raw, err := json.Marshal(c.a)
		if err != nil {
			t.Fatalf("%s: marshal: %v", c.name, err)
		}
		if string(raw) != c.wire {
			t.Errorf("%s: wire = %s, want %s", c.name, raw, c.wire)
		}

		var back Answer
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("%s: unmarshal: %v", c.name, err)
		}
		if back != c.a {
			t.Errorf("%s: round trip = %+v, want %+v", c.name, back, c.a)
		}
	}
}

func TestAnswerUnmarshalLooseShapes(t *testing.T) {
	var a Answer
	if err := json.Unmarshal([]byte(`1.0`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Kind != AnswerIndex || a.Index != 1 {
		t.Errorf("number = %+v, want index 1", a)
	}
}

func TestEnvelopeWrapUnwrap(t *testing.T) {
	payload := json.RawMessage(`{"titulo":"Lista","questoes":[{"id":"questao-1"}]}`)

	env, err := json.Marshal(Wrap(payload))
	if err != nil {
		t.Fatal(err)
	}

	got := Unwrap(env)
	if string(got) != string(payload) {
		t.Errorf("Unwrap(enveloped) = %s, want inner payload", got)
	}
}

func TestUnwrapFlatPassthrough(t *testing.T) {
	flat := json.RawMessage(`{"titulo":"Lista","questoes":[]}`)
	if got := Unwrap(flat); string(got) != string(flat) {
		t.Errorf("Unwrap(flat) = %s, want unchanged", got)
	}

	garbage := json.RawMessage(`not json at all`)
	if got := Unwrap(garbage); string(got) != string(garbage) {
		t.Errorf("Unwrap(garbage) = %s, want unchanged", got)
	}
}
