package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/storage"
)

var removeCmd = &cobra.Command{
	Use:   "remove <activity-id> <question-id>...",
	Short: "Remove questions from an activity",
	Long:  "Marks the given question ids as removed. The stored record is kept intact; reads simply filter the removed questions out.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		kv, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer kv.Close()

		ctx := context.Background()
		contract := storage.NewContract(kv)
		if err := contract.MarkQuestionsDeleted(ctx, args[0], args[1:]...); err != nil {
			return err
		}
		fmt.Printf("Removed %d question(s) from %s.\n", len(args)-1, args[0])
		return nil
	},
}
