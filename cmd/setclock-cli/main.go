package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/remote"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	flagServer  string
	flagDataDir string
	flagLogFile string
	flagYes     bool
)

var rootCmd = &cobra.Command{
	Use:           "setclock-cli",
	Short:         "Timed workout sessions from the terminal",
	Long:          "Run timed workouts against your setclock server, manage workout days and review statistics.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWorkout,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(homeDir, ".setclock")

	defaultServer := os.Getenv("SETCLOCK_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", defaultServer, "setclock server URL (env SETCLOCK_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", defaultDataDir, "Local state directory (outbox, logs)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (default <data-dir>/setclock.log)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")
}

func newClient() *remote.HTTPClient {
	return remote.NewHTTPClient(flagServer)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openLog returns a logger writing to the log file. The TUI owns the
// terminal, so nothing is logged to stdout or stderr.
func openLog() (*slog.Logger, io.Closer, error) {
	path := flagLogFile
	if path == "" {
		if err := os.MkdirAll(flagDataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data dir: %w", err)
		}
		path = filepath.Join(flagDataDir, "setclock.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})), f, nil
}

// confirm asks a yes/no question unless --yes was given.
func confirm(title, description string) (bool, error) {
	if flagYes {
		return true, nil
	}
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func formatWhen(t time.Time) string {
	return t.Local().Format("Mon Jan 2 15:04")
}
