package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/outbox"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Retry saving workouts that failed to reach the server",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	box, err := outbox.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer box.Close()

	n, err := box.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("  Nothing to sync.")
		return nil
	}

	res, err := box.Flush(ctx, newClient())
	if err != nil {
		return err
	}
	fmt.Printf("  Saved %d, still pending %d\n", res.Saved, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d workout(s) could not be saved", res.Failed)
	}
	return nil
}
