package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/env"
	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
)

func main() {
	env.Init()

	// base context (อนาคตถ้าจะทำ cancel เองก็ทำจากตรงนี้ได้)
	ctx := context.Background()

	cfg := config{
		addr:           env.GetString("API_PORT", ":3001"),
		allowedOrigins: env.GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		requestTimeout: env.GetDuration("REQUEST_TIMEOUT", 60*time.Second),
		appEnv:         env.GetAppEnv(),
	}

	// Logger
	logger := newLogger(env.GetString("LOG_FORMAT", "text"), env.GetString("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	// store lives as long as the process; nothing is persisted
	repo := todo.NewRepository()
	todoSvc := todo.NewService(repo, todo.WithLogger(logger))

	api := application{
		config:      cfg,
		todoService: todoSvc,
	}

	// ใช้ ctx + graceful shutdown
	if err := api.run(ctx, api.mount()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
