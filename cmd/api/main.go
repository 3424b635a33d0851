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

	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/database"
	"github.com/Tomlord1122/task-tracker/internal/logger"
	"github.com/Tomlord1122/task-tracker/internal/repository"
	"github.com/Tomlord1122/task-tracker/internal/server"
	"github.com/Tomlord1122/task-tracker/internal/service"
)

const shutdownTimeout = 5 * time.Second

func gracefulShutdown(apiServer *http.Server, dbService database.Service, log *slog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get shutdownTimeout to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
	}

	if err := dbService.Close(); err != nil {
		log.Error("error closing database connection pool", slog.Any("error", err))
	} else {
		log.Info("database connection pool closed")
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg.Server)
	log.Info("starting task tracker API",
		slog.String("env", cfg.Server.Env),
		slog.String("database", cfg.Database.Redacted()))

	dbService, err := database.New(context.Background(), cfg.Database, log)
	if err != nil {
		log.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}

	taskRepo := repository.NewGormTaskRepository(dbService.GetDB(), cfg.Database.QueryTimeout)
	taskService := service.NewTaskService(taskRepo)
	apiServer := server.NewServer(cfg, taskService, dbService, log)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, log, done)

	log.Info("listening", slog.String("addr", apiServer.Addr))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", slog.Any("error", err))
		_ = dbService.Close()
		os.Exit(1)
	}

	<-done
	log.Info("graceful shutdown complete")
}
