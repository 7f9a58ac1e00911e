package contentsync

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/storage"
)

func realContent(title string) *activity.Content {
	return &activity.Content{
		Title: title,
		Questions: []activity.Question{
			{ID: "questao-1", Type: activity.MultipleChoice, Statement: "Quanto é 2+2?",
				Alternatives: []string{"3", "4", "5", "6"}, Answer: activity.IndexAnswer(1)},
		},
		GeneratedByAI: true,
	}
}

func fallbackContent(title string) *activity.Content {
	return &activity.Content{Title: title, IsFallback: true}
}

func TestSetContentStoresAndNotifies(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	var got []Update
	unsubscribe := s.Subscribe(func(u Update) { got = append(got, u) })
	defer unsubscribe()

	applied := s.SetContent(ctx, "act-1", activity.TypeExerciseList, realContent("Frações"))
	require.True(t, applied)
	require.Len(t, got, 1)
	require.Equal(t, "act-1", got[0].ActivityID)
	require.Equal(t, activity.TypeExerciseList, got[0].Type)

	require.True(t, s.HasContent("act-1"))
	require.True(t, s.HasRealContent("act-1"))
	require.Equal(t, "Frações", s.GetContent("act-1").Title)
	require.Equal(t, 1, s.Len())
}

func TestSetContentDropsRegression(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.True(t, s.SetContent(ctx, "act-1", activity.TypeExerciseList, realContent("Real")))

	applied := s.SetContent(ctx, "act-1", activity.TypeExerciseList, fallbackContent("Placeholder"))
	require.False(t, applied, "placeholder must not replace real content")
	require.Equal(t, "Real", s.GetContent("act-1").Title)
}

func TestSetContentAllowsPlaceholderOverPlaceholder(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.True(t, s.SetContent(ctx, "act-1", activity.TypeQuiz, fallbackContent("First")))
	require.True(t, s.SetContent(ctx, "act-1", activity.TypeQuiz, fallbackContent("Second")))
	require.Equal(t, "Second", s.GetContent("act-1").Title)
}

func TestSetContentAllowsRealOverReal(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.True(t, s.SetContent(ctx, "act-1", activity.TypeQuiz, realContent("v1")))
	require.True(t, s.SetContent(ctx, "act-1", activity.TypeQuiz, realContent("v2")))
	require.Equal(t, "v2", s.GetContent("act-1").Title)
}

func TestSetContentKeepsFallbackCacheOnly(t *testing.T) {
	kv, err := storage.Open(filepath.Join(t.TempDir(), "classforge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	contract := storage.NewContract(kv)

	s := New(contract)
	ctx := context.Background()

	// Fallback bodies carry questions, so they pass the real-content
	// predicate; they must still never reach storage.
	placeholder := fallbackContent("Lista")
	placeholder.Questions = []activity.Question{
		{ID: "questao-1", Type: activity.OpenResponse, Statement: "Escreva sobre o tema."},
	}
	require.True(t, s.SetContent(ctx, "act-1", activity.TypeExerciseList, placeholder))

	require.True(t, s.HasContent("act-1"))
	require.Nil(t, contract.Read(ctx, "act-1", activity.TypeExerciseList))

	// A later real generation persists normally.
	require.True(t, s.SetContent(ctx, "act-1", activity.TypeExerciseList, realContent("Lista")))
	got := contract.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.False(t, got.IsFallback)
}

func TestGetContentForTypeFallsBackToLastKnownType(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.SetContent(ctx, "act-1", activity.TypeExerciseList, realContent("Lista"))

	// Exact type misses, id-level lookup still resolves.
	c := s.GetContentForType("act-1", activity.TypeQuiz)
	require.NotNil(t, c)
	require.Equal(t, "Lista", c.Title)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	calls := 0
	unsubscribe := s.Subscribe(func(Update) { calls++ })

	s.SetContent(ctx, "a", activity.TypeFlashCards, realContent("x"))
	unsubscribe()
	s.SetContent(ctx, "b", activity.TypeFlashCards, realContent("y"))

	require.Equal(t, 1, calls)
}

func TestSubscribeBusEvents(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	var events []string
	s.SubscribeBus(EventContentSyncUpdate, func(Update) { events = append(events, EventContentSyncUpdate) })
	s.SubscribeBus(EventActivityDataSync, func(Update) { events = append(events, EventActivityDataSync) })

	s.SetContent(ctx, "act-1", activity.TypeQuiz, realContent("Quiz"))
	require.ElementsMatch(t, []string{EventContentSyncUpdate, EventActivityDataSync}, events)
}

func TestEntriesSnapshot(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.SetContent(ctx, "act-1", activity.TypeExerciseList, realContent("Frações"))
	s.SetContent(ctx, "act-1", activity.TypeQuiz, realContent("Quiz"))
	s.SetContent(ctx, "act-2", activity.TypeLessonPlan, fallbackContent("Plano"))

	entries := s.Entries()
	require.Len(t, entries, 3)

	byKey := make(map[string]string, len(entries))
	for _, e := range entries {
		byKey[e.ID+"/"+string(e.Type)] = e.Content.Title
	}
	require.Equal(t, "Frações", byKey["act-1/lista-exercicios"])
	require.Equal(t, "Quiz", byKey["act-1/quiz-interativo"])
	require.Equal(t, "Plano", byKey["act-2/plano-aula"])
}

func TestRemove(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.SetContent(ctx, "act-1", activity.TypeQuiz, realContent("Quiz"))
	s.Remove("act-1")

	require.False(t, s.HasContent("act-1"))
	require.Equal(t, 0, s.Len())
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var ran []int
	for i := 0; i < 5; i++ {
		i := i
		d.Trigger(func() {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
		})
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{4}, ran, "only the last trigger should fire")
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("stopped debouncer must not fire")
	case <-time.After(80 * time.Millisecond):
	}
}
