package llm

import "context"

// Purpose labels for the four generation pipelines. They key the event
// log, so `classforge llm stats` can break usage down per pipeline.
const (
	PurposeExerciseList = "exercise-list-gen"
	PurposeQuiz         = "quiz-gen"
	PurposeFlashCards   = "flash-cards-gen"
	PurposeLessonPlan   = "lesson-plan-gen"
)

type purposeKeyType struct{}

var purposeKey purposeKeyType

// WithPurpose labels ctx with the pipeline issuing the request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom reads the label back; unlabeled requests report "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey).(string); ok {
		return p
	}
	return "unknown"
}
