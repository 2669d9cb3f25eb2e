package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/cli"
	"github.com/claude/setclock/internal/stats"
	"github.com/claude/setclock/internal/timeutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Workout statistics for a timeframe",
	RunE:  runStats,
}

var (
	statsTimeframe string
	statsJSON      bool
)

func init() {
	statsCmd.Flags().StringVarP(&statsTimeframe, "timeframe", "t", "weekly", "daily, weekly, monthly or all")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print raw JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	tf, err := timeutil.ParseTimeframe(statsTimeframe)
	if err != nil {
		return err
	}

	summaries, err := newClient().QuerySessionSummaries(commandContext(cmd), timeutil.StartDate(tf, time.Now()))
	if err != nil {
		return err
	}

	st := stats.Compute(summaries, time.Local)
	st.Timeframe = tf

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SETCLOCK  " + tf.Title()))
	fmt.Println()
	fmt.Print(cli.RenderStatistics(st, time.Local))
	return nil
}
