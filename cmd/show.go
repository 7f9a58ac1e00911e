package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/app"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Resolve and display an activity's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		typ, ok := activityTypes[typeName]
		if !ok {
			return fmt.Errorf("unknown activity type %q", typeName)
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

		res := a.Resolver().Resolve(ctx, args[0], typ)
		if res.Awaiting {
			fmt.Println(styleNotice.Render("Conteúdo ainda não disponível para esta atividade."))
			return nil
		}

		fmt.Println(styleTitle.Render(res.Content.Title))
		fmt.Printf("%s %s\n\n", styleLabel.Render("Fonte:"), res.Source)
		printContent(res.Content)
		return nil
	},
}

func printContent(c *activity.Content) {
	for i, q := range c.Questions {
		fmt.Printf("%d. %s\n", i+1, q.Statement)
		for j, alt := range q.Alternatives {
			fmt.Printf("   %c) %s\n", 'a'+j, alt)
		}
		fmt.Printf("   %s %s\n", styleLabel.Render("Resposta:"), q.Answer)
		if q.Explanation != "" {
			fmt.Printf("   %s %s\n", styleLabel.Render("Explicação:"), q.Explanation)
		}
		fmt.Println()
	}
	for i, card := range c.Cards {
		fmt.Printf("%d. %s\n   %s\n\n", i+1, card.Front, card.Back)
	}
	for _, s := range c.Sections {
		fmt.Println(styleTitle.Render(s.Title))
		if s.DurationMinutes > 0 {
			fmt.Println(styleLabel.Render(fmt.Sprintf("%d min", s.DurationMinutes)))
		}
		fmt.Printf("%s\n\n", s.Body)
	}
	if c.IsFallback {
		fmt.Println(styleNotice.Render("Este é um conteúdo de fallback."))
	}
}

func init() {
	showCmd.Flags().StringP("type", "t", "lista-exercicios", "Activity type")
}
