package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/cli"
	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/timeutil"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Logged workouts",
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged workouts",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a logged workout",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var (
	sessionsTimeframe string
	sessionsLimit     int
)

func init() {
	sessionsCmd.PersistentFlags().StringVarP(&sessionsTimeframe, "timeframe", "t", "weekly", "daily, weekly, monthly or all")
	sessionsCmd.PersistentFlags().IntVarP(&sessionsLimit, "limit", "l", 20, "Number of workouts to show")

	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func loadSessions(cmd *cobra.Command) ([]models.SessionSummary, error) {
	tf, err := timeutil.ParseTimeframe(sessionsTimeframe)
	if err != nil {
		return nil, err
	}
	return newClient().QuerySessionSummaries(commandContext(cmd), timeutil.StartDate(tf, time.Now()))
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	sessions, err := loadSessions(cmd)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("\n  No workouts in the selected timeframe.")
		return nil
	}
	if sessionsLimit > 0 && len(sessions) > sessionsLimit {
		sessions = sessions[:sessionsLimit]
	}
	fmt.Println()
	fmt.Print(cli.RenderSessions(sessions, time.Local))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	id := args[0]

	desc := "This cannot be undone."
	if sessions, err := newClient().QuerySessionSummaries(ctx, time.Unix(0, 0)); err == nil {
		for _, s := range sessions {
			if s.ID == id {
				desc = fmt.Sprintf("%s on %s (%s). This cannot be undone.",
					s.DayName, formatWhen(s.LoggedAt()), timeutil.FormatDuration(s.TotalDuration))
				break
			}
		}
	}

	yes, err := confirm("Delete this workout?", desc)
	if err != nil {
		return err
	}
	if !yes {
		fmt.Println("  Cancelled.")
		return nil
	}

	if err := newClient().DeleteSessionSummary(ctx, id); err != nil {
		return err
	}
	fmt.Printf("  Deleted workout %s\n", id)
	return nil
}
