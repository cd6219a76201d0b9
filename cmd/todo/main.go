package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/client"
	"github.com/nambuntu/sdd-speckit-todoapp/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	configPath := flags.String("config", client.DefaultConfigPath(), "path to the YAML config file")
	flags.String("api-url", "", "todo API base URL (default "+client.DefaultAPIURL+")")
	flags.String("log-file", "", "write debug logs to this file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := client.LoadConfig(*configPath, flags)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting todo client", "api_url", cfg.APIURL)

	api := client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout))
	return tui.Run(ctx, client.NewState(api))
}

// setupLogging keeps the terminal clean: logs go to a file or nowhere.
func setupLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { _ = f.Close() }, nil
}
