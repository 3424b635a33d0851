package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/database"
	"github.com/Tomlord1122/task-tracker/internal/service"
)

// HealthChecker probes the store for the health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) database.Health
}

type Server struct {
	cfg         config.ServerConfig
	cors        config.CORSConfig
	taskService service.TaskService
	db          HealthChecker
	log         *slog.Logger
	startedAt   time.Time
	now         func() time.Time
}

func newServer(cfg *config.Config, taskService service.TaskService, db HealthChecker, log *slog.Logger) *Server {
	return &Server{
		cfg:         cfg.Server,
		cors:        cfg.CORS,
		taskService: taskService,
		db:          db,
		log:         log,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

// NewServer builds the HTTP server for the API.
func NewServer(cfg *config.Config, taskService service.TaskService, db HealthChecker, log *slog.Logger) *http.Server {
	appServer := newServer(cfg, taskService, db, log)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}
}
