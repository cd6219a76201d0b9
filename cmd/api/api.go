package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nambuntu/sdd-speckit-todoapp/internal/env"
	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
	"github.com/nambuntu/sdd-speckit-todoapp/pkg/utils"
)

type config struct {
	addr           string
	allowedOrigins []string
	requestTimeout time.Duration
	appEnv         env.AppEnv
}

type application struct {
	config      config
	todoService todo.Service
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300, // cache preflight 5 นาที
	}))

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer) // recover from panics or crashes

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	if app.config.requestTimeout > 0 {
		r.Use(middleware.Timeout(app.config.requestTimeout))
	}

	r.NotFound(todo.RouteNotFound)
	r.MethodNotAllowed(todo.RouteNotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	todoHandler := todo.NewHandler(app.todoService)

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", todoHandler.ListTodos)
		r.Post("/", todoHandler.CreateTodo)
		r.Get("/{id}", todoHandler.GetTodoByID)
		r.Patch("/{id}", todoHandler.UpdateStatus)
		r.Delete("/{id}", todoHandler.DeleteTodo)
	})

	return r
}

/*
	Graceful shutdown:
	1. ListenAndServe runs in its own goroutine
	2. on SIGINT/SIGTERM or ctx cancel we stop accepting new requests
	3. in-flight requests get until shutdownTimeout to finish
*/

const shutdownTimeout = 10 * time.Second

func (app *application) run(ctx context.Context, h http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      h,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	// channel ไว้รับ error จาก ListenAndServe
	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", app.config.addr, "env", app.config.appEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down server...")
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		// server died on its own, e.g. the port is taken
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server exited gracefully")
	return nil
}
