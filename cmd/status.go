package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricardofaria/classforge/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage usage",
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
		bytes, percent, err := kv.Usage(ctx)
		if err != nil {
			return err
		}
		entries, err := kv.Len(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", styleLabel.Render("Database:"), dbPath)
		fmt.Printf("%s %d\n", styleLabel.Render("Entries:"), entries)
		fmt.Printf("%s %.1f KB of %d KB (%.1f%%)\n",
			styleLabel.Render("Usage:"), float64(bytes)/1024, storage.MaxStorageBytes/1024, percent)

		for _, prefix := range []string{"constructed_", "activity_", "text_content_"} {
			keys, err := kv.Keys(ctx, prefix)
			if err != nil {
				return err
			}
			fmt.Printf("  %-14s %d\n", prefix, len(keys))
		}
		return nil
	},
}
