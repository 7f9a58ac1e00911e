package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/appstate"
	"github.com/ricardofaria/classforge/internal/contentsync"
)

type staticSource struct {
	name    string
	content *activity.Content
	calls   int
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Lookup(context.Context, string, activity.Type) *activity.Content {
	s.calls++
	return s.content
}

func real(title string) *activity.Content {
	return &activity.Content{
		Title: title,
		Questions: []activity.Question{
			{ID: "questao-1", Type: activity.MultipleChoice, Statement: "Quanto é 2+2?",
				Alternatives: []string{"3", "4", "5", "6"}, Answer: activity.IndexAnswer(1)},
		},
	}
}

func TestResolveFirstRealWins(t *testing.T) {
	ctx := context.Background()
	first := &staticSource{name: "first", content: &activity.Content{Title: "empty"}}
	second := &staticSource{name: "second", content: real("winner")}
	third := &staticSource{name: "third", content: real("loser")}

	res := New([]Source{first, second, third}).Resolve(ctx, "act-1", activity.TypeExerciseList)

	if res.Awaiting {
		t.Fatal("expected a resolution, got awaiting")
	}
	if res.Source != "second" {
		t.Errorf("Source = %q, want %q", res.Source, "second")
	}
	if res.Content.Title != "winner" {
		t.Errorf("Title = %q, want %q", res.Content.Title, "winner")
	}
	if third.calls != 0 {
		t.Errorf("third source consulted %d times, want 0", third.calls)
	}
}

func TestResolveAllEmptyAwaits(t *testing.T) {
	ctx := context.Background()
	r := New([]Source{
		&staticSource{name: "a"},
		&staticSource{name: "b", content: &activity.Content{IsFallback: true}},
	})

	res := r.Resolve(ctx, "act-1", activity.TypeLessonPlan)
	if !res.Awaiting {
		t.Fatal("expected awaiting resolution")
	}
	if res.Content != nil {
		t.Errorf("Content = %v, want nil", res.Content)
	}
}

func TestResolveRegeneratesRegenerableTypes(t *testing.T) {
	ctx := context.Background()
	regenerated := 0
	r := New([]Source{&staticSource{name: "empty"}}, WithRegenerator(
		func(ctx context.Context, id string, typ activity.Type) (*activity.Content, error) {
			regenerated++
			return real("regen"), nil
		}))

	res := r.Resolve(ctx, "act-1", activity.TypeExerciseList)
	if res.Awaiting {
		t.Fatal("expected regenerated content")
	}
	if res.Source != "regenerated" {
		t.Errorf("Source = %q, want %q", res.Source, "regenerated")
	}
	if regenerated != 1 {
		t.Errorf("regenerator called %d times, want 1", regenerated)
	}
}

func TestResolveSkipsRegenerationForNonRegenerableTypes(t *testing.T) {
	ctx := context.Background()
	regenerated := 0
	r := New([]Source{&staticSource{name: "empty"}}, WithRegenerator(
		func(ctx context.Context, id string, typ activity.Type) (*activity.Content, error) {
			regenerated++
			return real("regen"), nil
		}))

	res := r.Resolve(ctx, "act-1", activity.TypeLessonPlan)
	if !res.Awaiting {
		t.Fatal("lesson plans must not regenerate, expected awaiting")
	}
	if regenerated != 0 {
		t.Errorf("regenerator called %d times, want 0", regenerated)
	}
}

func TestResolveRegenerationFailureStaysAwaiting(t *testing.T) {
	ctx := context.Background()
	r := New([]Source{&staticSource{name: "empty"}}, WithRegenerator(
		func(ctx context.Context, id string, typ activity.Type) (*activity.Content, error) {
			return nil, errors.New("provider down")
		}))
	r.logf = func(string, ...any) {}

	res := r.Resolve(ctx, "act-1", activity.TypeQuiz)
	if !res.Awaiting {
		t.Fatal("expected awaiting after failed regeneration")
	}
}

func TestSyncSourceLookup(t *testing.T) {
	ctx := context.Background()
	svc := contentsync.New(nil)
	svc.SetContent(ctx, "act-1", activity.TypeQuiz, real("cached"))

	src := SyncSource{Service: svc}
	got := src.Lookup(ctx, "act-1", activity.TypeQuiz)
	if got == nil || got.Title != "cached" {
		t.Fatalf("Lookup = %v, want cached content", got)
	}
}

func TestAppStateSourceDecodesGeneratedField(t *testing.T) {
	store := appstate.NewStore()
	store.Put(appstate.Record{
		ID: "act-1",
		BuiltData: appstate.BuiltData{GeneratedFields: map[string]json.RawMessage{
			"generatedContent": mustJSON(t, real("from state")),
		}},
	})

	src := AppStateSource{Store: store}
	got := src.Lookup(context.Background(), "act-1", activity.TypeExerciseList)
	if got == nil || got.Title != "from state" {
		t.Fatalf("Lookup = %v, want state content", got)
	}
}

func TestOriginSourceScopedToID(t *testing.T) {
	src := OriginSource{Payload: real("origin"), ForID: "act-1"}

	if got := src.Lookup(context.Background(), "act-2", activity.TypeQuiz); got != nil {
		t.Errorf("Lookup for other id = %v, want nil", got)
	}
	if got := src.Lookup(context.Background(), "act-1", activity.TypeQuiz); got == nil {
		t.Error("Lookup for own id = nil, want payload")
	}
}

func TestInspectReportsEveryStep(t *testing.T) {
	ctx := context.Background()
	r := New([]Source{
		&staticSource{name: "empty"},
		&staticSource{name: "placeholder", content: &activity.Content{IsFallback: true}},
		&staticSource{name: "real", content: real("x")},
	})

	verdicts := r.Inspect(ctx, "act-1", activity.TypeQuiz)
	if len(verdicts) != 3 {
		t.Fatalf("len(verdicts) = %d, want 3", len(verdicts))
	}
	if verdicts[0].Found || verdicts[0].HasReal {
		t.Errorf("verdicts[0] = %+v, want not found", verdicts[0])
	}
	if !verdicts[1].Found || verdicts[1].HasReal {
		t.Errorf("verdicts[1] = %+v, want found without real content", verdicts[1])
	}
	if !verdicts[2].HasReal {
		t.Errorf("verdicts[2] = %+v, want real content", verdicts[2])
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}
