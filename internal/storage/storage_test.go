package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ricardofaria/classforge/internal/activity"
)

func testKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "classforge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func realContent() *activity.Content {
	return &activity.Content{
		Title:   "Lista de Frações",
		Subject: "Matemática",
		Questions: []activity.Question{
			{ID: "questao-1", Type: activity.MultipleChoice, Statement: "Quanto é 1/2 + 1/4?",
				Alternatives: []string{"1/4", "3/4", "1", "2"}, Answer: activity.IndexAnswer(1)},
		},
		GeneratedByAI: true,
	}
}

func placeholderContent() *activity.Content {
	return &activity.Content{Title: "Lista de Frações", IsFallback: true}
}

func TestKVSetGet(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", `{"a":1}`))

	got, ok := kv.Get(ctx, "k1")
	require.True(t, ok)
	require.Equal(t, `{"a":1}`, got)

	_, ok = kv.Get(ctx, "missing")
	require.False(t, ok)
}

func TestKVOverwriteAndDelete(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", "v1"))
	require.NoError(t, kv.Set(ctx, "k1", "v2"))

	got, ok := kv.Get(ctx, "k1")
	require.True(t, ok)
	require.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k1"))
	_, ok = kv.Get(ctx, "k1")
	require.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "k1"), "deleting absent key is not an error")
}

func TestKVIntegrityFailureReadsAsNotFound(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", "valid"))

	// Corrupt the value behind the store's back.
	_, err := kv.DB().ExecContext(ctx, `UPDATE kv_entries SET value = 'tampered' WHERE key = 'k1'`)
	require.NoError(t, err)

	_, ok := kv.Get(ctx, "k1")
	require.False(t, ok, "checksum mismatch must read as not found")
}

func TestKVKeysByPrefix(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "constructed_quiz-interativo_a", "1"))
	require.NoError(t, kv.Set(ctx, "constructed_lista-exercicios_b", "2"))
	require.NoError(t, kv.Set(ctx, "activity_c", "3"))

	keys, err := kv.Keys(ctx, "constructed_")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	n, err := kv.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestContractWriteEnvelopedAndLegacy(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, "act-1", activity.TypeExerciseList, realContent(), false))

	// Primary key holds an envelope for quiz-like types.
	raw, ok := kv.Get(ctx, ConstructedKey("lista-exercicios", "act-1"))
	require.True(t, ok)
	require.Contains(t, raw, `"success":true`)
	require.Contains(t, raw, `"data":`)

	// Legacy copy is flat.
	legacy, ok := kv.Get(ctx, LegacyKey("act-1"))
	require.True(t, ok)
	require.NotContains(t, legacy, `"success"`)
	require.Contains(t, legacy, `"questoes"`)

	got := c.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Equal(t, "Lista de Frações", got.Title)
	require.Len(t, got.Questions, 1)
}

func TestContractWriteFlatForLessonPlan(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	content := &activity.Content{Title: "Plano", Sections: []activity.Section{{Title: "Introdução"}}}
	require.NoError(t, c.Write(ctx, "act-2", activity.TypeLessonPlan, content, false))

	raw, ok := kv.Get(ctx, ConstructedKey("plano-aula", "act-2"))
	require.True(t, ok)
	require.NotContains(t, raw, `"success"`)

	got := c.Read(ctx, "act-2", activity.TypeLessonPlan)
	require.NotNil(t, got)
	require.Len(t, got.Sections, 1)
}

func TestContractAntiClobber(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	c.logf = func(string, ...any) {}
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, "act-1", activity.TypeExerciseList, realContent(), false))

	// Placeholder over real: silently skipped, stored copy survives.
	require.NoError(t, c.Write(ctx, "act-1", activity.TypeExerciseList, placeholderContent(), false))
	got := c.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Len(t, got.Questions, 1, "real content must survive a placeholder write")

	// Same placeholder with force: overwrites.
	require.NoError(t, c.Write(ctx, "act-1", activity.TypeExerciseList, placeholderContent(), true))
	got = c.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Empty(t, got.Questions)
	require.True(t, got.IsFallback)
}

func TestContractWriteSkipIdempotence(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	c.logf = func(string, ...any) {}
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, "act-1", activity.TypeQuiz, realContent(), false))
	before := c.Read(ctx, "act-1", activity.TypeQuiz)

	// Repeating the skipped write changes nothing.
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Write(ctx, "act-1", activity.TypeQuiz, placeholderContent(), false))
	}
	after := c.Read(ctx, "act-1", activity.TypeQuiz)
	require.Equal(t, before, after)
}

func TestContractReadFallsBackToLegacyKey(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	// A record written before typed keys existed: flat, legacy key only.
	require.NoError(t, kv.Set(ctx, LegacyKey("old-act"), `{"titulo":"Antiga","questoes":[{"id":"questao-1","enunciado":"?"}]}`))

	got := c.Read(ctx, "old-act", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Equal(t, "Antiga", got.Title)
}

func TestContractCorruptRecordReadsAsNotFound(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	c.logf = func(string, ...any) {}
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, ConstructedKey("quiz-interativo", "bad"), `{invalid json`))

	require.Nil(t, c.Read(ctx, "bad", activity.TypeQuiz))
}

func TestContractFieldsRoundTrip(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	fields := map[string]string{"titulo": "Lista", "tema": "Frações"}
	require.NoError(t, c.WriteFields(ctx, "act-1", fields))
	require.Equal(t, fields, c.ReadFields(ctx, "act-1"))

	require.Nil(t, c.ReadFields(ctx, "unknown"))
}

func TestContractDeletedQuestionsFiltered(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	content := &activity.Content{
		Title: "Lista",
		Questions: []activity.Question{
			{ID: "questao-1", Type: activity.OpenResponse, Statement: "Primeira?"},
			{ID: "questao-2", Type: activity.OpenResponse, Statement: "Segunda?"},
			{ID: "questao-3", Type: activity.OpenResponse, Statement: "Terceira?"},
		},
		QuestionCount: 3,
		GeneratedByAI: true,
	}
	require.NoError(t, c.Write(ctx, "act-1", activity.TypeExerciseList, content, false))

	require.NoError(t, c.MarkQuestionsDeleted(ctx, "act-1", "questao-2"))

	got := c.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Len(t, got.Questions, 2)
	require.Equal(t, "questao-1", got.Questions[0].ID)
	require.Equal(t, "questao-3", got.Questions[1].ID)
	require.Equal(t, 2, got.QuestionCount)

	// Marking again merges without duplicating.
	require.NoError(t, c.MarkQuestionsDeleted(ctx, "act-1", "questao-2", "questao-3"))
	require.Equal(t, []string{"questao-2", "questao-3"}, c.DeletedQuestions(ctx, "act-1"))

	got = c.Read(ctx, "act-1", activity.TypeExerciseList)
	require.NotNil(t, got)
	require.Len(t, got.Questions, 1)

	// The stored record keeps the full list.
	raw, ok := kv.Get(ctx, LegacyKey("act-1"))
	require.True(t, ok)
	require.Contains(t, raw, "questao-2")
}

func TestContractTextRoundTrip(t *testing.T) {
	kv := testKV(t)
	c := NewContract(kv)
	ctx := context.Background()

	_, ok := c.ReadText(ctx, activity.TypeExerciseList, "act-1")
	require.False(t, ok)

	require.NoError(t, c.WriteText(ctx, activity.TypeExerciseList, "act-1", "1. Primeira?\n"))
	text, ok := c.ReadText(ctx, activity.TypeExerciseList, "act-1")
	require.True(t, ok)
	require.Equal(t, "1. Primeira?\n", text)
}

func TestClearActivity(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, ConstructedKey("quiz-interativo", "act-1"), "x"))
	require.NoError(t, kv.Set(ctx, LegacyKey("act-1"), "x"))
	require.NoError(t, kv.Set(ctx, FieldsKey("act-1"), "x"))
	require.NoError(t, kv.Set(ctx, LegacyKey("act-2"), "x"))

	n, err := kv.ClearActivity(ctx, "act-1")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, ok := kv.Get(ctx, LegacyKey("act-2"))
	require.True(t, ok, "other activities untouched")
}

func TestUsageAndCleanupBelowThreshold(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "activity_small", "x"))

	bytes, percent, err := kv.Usage(ctx)
	require.NoError(t, err)
	require.Greater(t, bytes, int64(0))
	require.Less(t, percent, 80.0)

	removed, err := kv.Cleanup(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, removed, "cleanup is a no-op under the threshold")
}

func TestCleanupEvictsLowPriorityFirst(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	big := strings.Repeat("x", 1<<20)
	for i := 0; i < 4; i++ {
		require.NoError(t, kv.Set(ctx, fmt.Sprintf("generated_content_%d", i), big))
	}
	require.NoError(t, kv.Set(ctx, "user_preferences", "keep"))
	require.NoError(t, kv.Set(ctx, "text_content_lista-exercicios_act-1", "keep"))

	removed, err := kv.Cleanup(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, removed)
	for _, k := range removed {
		require.Contains(t, k, "generated_content_")
	}

	_, ok := kv.Get(ctx, "user_preferences")
	require.True(t, ok, "protected keys survive")
	_, ok = kv.Get(ctx, "text_content_lista-exercicios_act-1")
	require.True(t, ok, "high-priority keys survive while low-priority space remains")
}

func TestEventRepoAppendAndQuery(t *testing.T) {
	kv := testKV(t)
	repo := kv.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "exercise-list-gen",
		InputTokens: 100, OutputTokens: 400, LatencyMs: 1200, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "quiz-gen",
		Success: false, ErrorMessage: "rate limited",
	}))

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "quiz-gen", all[0].Purpose, "newest first")

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "exercise-list-gen"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.True(t, filtered[0].Success)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestKeyBuilders(t *testing.T) {
	require.Equal(t, "constructed_lista-exercicios_a1", ConstructedKey("lista-exercicios", "a1"))
	require.Equal(t, "activity_a1", LegacyKey("a1"))
	require.Equal(t, "activity_a1_fields", FieldsKey("a1"))
	require.Equal(t, "activity_deleted_questions_a1", DeletedQuestionsKey("a1"))
	require.Equal(t, "text_content_quiz-interativo_a1", TextContentKey("quiz-interativo", "a1"))
}
