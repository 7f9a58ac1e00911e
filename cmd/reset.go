package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset [activity-id]",
	Short: "Clear stored activity data",
	Long:  "Without arguments, clears every stored activity record. With an activity id, clears only that activity's keys.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

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

		if len(args) == 1 {
			if !yes && !confirm(fmt.Sprintf("Remove all stored data for activity %q?", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}
			n, err := kv.ClearActivity(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d keys.\n", n)
			return nil
		}

		if !yes && !confirm("Remove ALL stored activities?") {
			fmt.Println("Aborted.")
			return nil
		}

		removed := 0
		for _, prefix := range []string{"constructed_", "activity_", "text_content_"} {
			keys, err := kv.Keys(ctx, prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				if err := kv.Delete(ctx, k); err != nil {
					return err
				}
				removed++
			}
		}
		fmt.Printf("Removed %d keys.\n", removed)
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
