package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/cli"
	"github.com/idilsaglam/todoclient/internal/config"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	color := flag.Bool("color", false, "color output even when not writing to a terminal")
	theme := flag.String("theme", "", "output theme: classic, neon or mono")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logFile, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Group:  *groupPending,
		Color:  *color,
		Theme:  *theme,
		Config: cfg,
		Logger: log.StandardLogger(),
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

// setupLogging points logrus at the configured file. The terminal belongs
// to the interactive client, so without a file logs are dropped.
func setupLogging(cfg config.LogConfig) (*os.File, error) {
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.File == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(f)
	return f, nil
}
