// Package main is the entry point for the sessionlens agent CLI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/vincentbai/sessionlens/internal/classify"
	"github.com/vincentbai/sessionlens/internal/config"
	"github.com/vincentbai/sessionlens/internal/logging"
	"github.com/vincentbai/sessionlens/internal/replay"
	"github.com/vincentbai/sessionlens/internal/server"
	"github.com/vincentbai/sessionlens/internal/store"
)

const version = "0.1.0"

func main() {
	// Env vars win over .env; Load won't overwrite existing ones.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		serve()
	case "replay":
		runReplay(args)
	case "version":
		fmt.Printf("sessionlens version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.ParseLevel(cfg.Logging.Level))

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	srv := server.NewServer(st, cfg.Server.Address)
	if err := srv.Start(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runReplay(args []string) {
	flags := flag.NewFlagSet("replay", flag.ExitOnError)
	at := flags.Int64("at", -1, "playback position in ms (default: end of session)")
	filter := flags.String("filter", "all", "network filter category")
	verbose := flags.Bool("v", false, "show stacks, headers, and bodies")
	flags.Parse(args)

	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sessionlens replay [-at ms] [-filter category] [-v] <bundle.json|bundle-id>")
		os.Exit(1)
	}
	target := flags.Arg(0)

	category := classify.Category(*filter)
	if !classify.Valid(category) {
		fmt.Fprintf(os.Stderr, "unknown filter category: %s\n", *filter)
		os.Exit(1)
	}

	styled := isatty.IsTerminal(os.Stdout.Fd())
	replayer := replay.New(os.Stdout, *verbose, styled)

	// A path that exists on disk is a bundle file; anything else is looked
	// up as a store id.
	if _, err := os.Stat(target); err == nil {
		if err := replayer.ReplayFile(target, *at, category); err != nil {
			fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	payload, err := st.Get(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load bundle %s: %v\n", target, err)
		os.Exit(1)
	}
	if err := replayer.ReplayRaw(payload, *at, category); err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sessionlens - replay recorded browser sessions

Usage:
  sessionlens serve                                    start the upload/query agent
  sessionlens replay [-at ms] [-filter cat] [-v] <src> print a bundle timeline
  sessionlens version                                  print version

Environment:
  SESSIONLENS_ADDRESS     listen address (default 127.0.0.1:8123)
  SESSIONLENS_DB          bundle store path
  SESSIONLENS_LOG_LEVEL   debug|info|warn|error
  SESSIONLENS_CONFIG      optional YAML config file`)
}
