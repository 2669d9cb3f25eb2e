package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/outbox"
	"github.com/claude/setclock/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [day]",
	Short: "Start a workout (choose a day, or pass its name or ID)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkout,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWorkout(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	log, closer, err := openLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	client := newClient()
	days, err := client.ListWorkoutDays(ctx)
	if err != nil {
		return fmt.Errorf("loading workout days from %s: %w", client.BaseURL(), err)
	}
	if len(days) == 0 {
		fmt.Println("\n  No workout days yet. Create one with: setclock-cli days create")
		return nil
	}

	box, err := outbox.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer box.Close()

	// Earlier unsaved workouts get another chance before a new one starts.
	if res, err := box.Flush(ctx, client); err != nil {
		log.Warn("outbox flush failed", "error", err)
	} else if res.Saved > 0 || res.Failed > 0 {
		log.Info("outbox flushed", "saved", res.Saved, "failed", res.Failed)
	}

	opts := tui.Options{
		Store: client,
		Days:  days,
		Queue: box,
		Log:   log,
	}
	if len(args) == 1 {
		opts.Day = args[0]
	}
	if err := tui.Run(ctx, opts); err != nil {
		return err
	}

	if n, err := box.Count(ctx); err == nil && n > 0 {
		fmt.Fprintf(os.Stderr, "  %d workout(s) not yet saved. Run: setclock-cli sync\n", n)
	}
	return nil
}
