package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Render an activity as plain text",
	Long:  "Resolves the activity, prints a plain-text rendition, and caches it for later exports. When no content can be resolved, a previously cached rendition is served.",
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
			if cached, ok := a.Contract.ReadText(ctx, typ, args[0]); ok {
				fmt.Print(cached)
				return nil
			}
			return fmt.Errorf("no content available for activity %q", args[0])
		}

		text := renderText(res.Content)
		if err := a.Contract.WriteText(ctx, typ, args[0], text); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache text rendition: %v\n", err)
		}
		fmt.Print(text)
		return nil
	},
}

func renderText(c *activity.Content) string {
	var b strings.Builder

	b.WriteString(c.Title)
	b.WriteString("\n")
	if c.Subject != "" || c.Theme != "" {
		fmt.Fprintf(&b, "%s — %s\n", c.Subject, c.Theme)
	}
	b.WriteString("\n")

	for i, q := range c.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Statement)
		for j, alt := range q.Alternatives {
			fmt.Fprintf(&b, "   %c) %s\n", 'a'+j, alt)
		}
		fmt.Fprintf(&b, "   Resposta: %s\n", q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "   Explicação: %s\n", q.Explanation)
		}
		b.WriteString("\n")
	}
	for i, card := range c.Cards {
		fmt.Fprintf(&b, "%d. %s\n   %s\n\n", i+1, card.Front, card.Back)
	}
	for _, s := range c.Sections {
		b.WriteString(s.Title)
		b.WriteString("\n")
		if s.DurationMinutes > 0 {
			fmt.Fprintf(&b, "(%d min)\n", s.DurationMinutes)
		}
		fmt.Fprintf(&b, "%s\n\n", s.Body)
	}
	if c.IsFallback {
		b.WriteString("Este é um conteúdo de fallback.\n")
	}
	return b.String()
}

func init() {
	exportCmd.Flags().StringP("type", "t", "lista-exercicios", "Activity type")
}
