package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/app"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources <id>",
	Short: "Show each resolution source's verdict for an activity",
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

		verdicts := a.Resolver().Inspect(ctx, args[0], typ)
		fmt.Printf("%-16s  %-7s  %s\n", "Source", "Found", "Real content")
		for _, v := range verdicts {
			real := "-"
			if v.HasReal {
				real = styleOK.Render("yes")
			} else if v.Found {
				real = styleNotice.Render("no")
			}
			found := "-"
			if v.Found {
				found = "yes"
			}
			fmt.Printf("%-16s  %-7s  %s\n", v.Source, found, real)
		}
		return nil
	},
}

func init() {
	sourcesCmd.Flags().StringP("type", "t", "lista-exercicios", "Activity type")
}
