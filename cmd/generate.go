package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/app"
)

var activityTypes = map[string]activity.Type{
	"lista-exercicios": activity.TypeExerciseList,
	"quiz-interativo":  activity.TypeQuiz,
	"flash-cards":      activity.TypeFlashCards,
	"plano-aula":       activity.TypeLessonPlan,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		typ, ok := activityTypes[typeName]
		if !ok {
			return fmt.Errorf("unknown activity type %q (want lista-exercicios, quiz-interativo, flash-cards, or plano-aula)", typeName)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		ctx := context.Background()
		a, err := app.New(ctx, app.Options{DBPath: dbPath})
		if err != nil {
			return err
		}
		defer a.Close()

		fields := map[string]string{}
		for flag, field := range map[string]string{
			"title":      "titulo",
			"subject":    "disciplina",
			"theme":      "tema",
			"year":       "anoEscolaridade",
			"count":      "numeroQuestoes",
			"difficulty": "nivelDificuldade",
			"model":      "modeloQuestoes",
			"objectives": "objetivos",
		} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				fields[field] = v
			}
		}

		res := a.Generate(ctx, typ, fields)

		fmt.Println(styleTitle.Render(res.Content.Title))
		fmt.Printf("%s %s\n", styleLabel.Render("ID:"), res.ActivityID)
		fmt.Printf("%s %s\n", styleLabel.Render("Tipo:"), res.Type)
		fmt.Printf("%s %d\n", styleLabel.Render("Itens:"), res.Content.QuestionCount)
		if res.Notice != "" {
			fmt.Println(styleNotice.Render(res.Notice))
		} else {
			fmt.Println(styleOK.Render(fmt.Sprintf("Gerado pela IA (%s, %d válidas / %d reparadas)",
				res.Report.Method, res.Report.Valid, res.Report.Invalid)))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("type", "t", "lista-exercicios", "Activity type")
	generateCmd.Flags().String("title", "", "Activity title")
	generateCmd.Flags().String("subject", "", "School subject (disciplina)")
	generateCmd.Flags().String("theme", "", "Theme (tema)")
	generateCmd.Flags().String("year", "", "School year (ano de escolaridade)")
	generateCmd.Flags().StringP("count", "n", "", "Number of questions")
	generateCmd.Flags().String("difficulty", "", "Difficulty level")
	generateCmd.Flags().String("model", "", "Question model (multipla-escolha, discursiva, verdadeiro-falso, mista)")
	generateCmd.Flags().String("objectives", "", "Learning objectives")
}
