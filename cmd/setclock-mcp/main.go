package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/setclock/internal/mcp"
	"github.com/claude/setclock/internal/remote"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("SETCLOCK_SERVER"), "setclock server URL (e.g. http://setclock.tail1234.ts.net)")
	tz := flag.String("timezone", "", "IANA zone for daily buckets (defaults to local time)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("setclock-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or set SETCLOCK_SERVER)\n")
		os.Exit(1)
	}

	loc := time.Local
	if *tz != "" {
		var err error
		if loc, err = time.LoadLocation(*tz); err != nil {
			log.Error("invalid timezone", "timezone", *tz, "error", err)
			os.Exit(1)
		}
	}

	client := remote.NewHTTPClient(*serverURL)
	s := mcp.New(client, loc, Version, log)

	log.Info("setclock-mcp serving on stdio", "server", client.BaseURL())
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp stdio server failed", "error", err)
		os.Exit(1)
	}
}
