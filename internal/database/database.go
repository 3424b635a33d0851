package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/logger"
)

// Service exposes the connection pool to the rest of the application.
type Service interface {
	Health(ctx context.Context) Health
	Close() error
	GetDB() *gorm.DB
}

// Health is the outcome of a liveness probe against the store.
type Health struct {
	OK      bool
	Latency time.Duration
	Stats   sql.DBStats
	Err     error
}

type service struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	timeout time.Duration
	log     *slog.Logger
}

// New opens the connection pool, applies pool settings and runs a startup
// probe. When cfg.AutoMigrate is set the schema and tasks table are created.
func New(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (Service, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.NewGormLogger(log, log.Enabled(ctx, slog.LevelDebug)),
		NamingStrategy: schema.NamingStrategy{TablePrefix: cfg.TablePrefix()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	s := &service{db: db, sqlDB: sqlDB, timeout: cfg.QueryTimeout, log: log}

	if err := s.probe(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Warn("running database auto-migration (dev only)", slog.String("schema", cfg.Schema))
		if err := Migrate(ctx, db, cfg.Schema); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return s, nil
}

// probe runs SELECT NOW() so a misconfigured pool fails at startup rather
// than on the first request.
func (s *service) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var now time.Time
	if err := s.db.WithContext(ctx).Raw("SELECT NOW()").Scan(&now).Error; err != nil {
		return fmt.Errorf("initial database query failed: %w", err)
	}
	s.log.Info("connected to postgres", slog.Time("server_time", now))
	return nil
}

// Migrate creates the schema (if any) and the tasks table.
func Migrate(ctx context.Context, db *gorm.DB, schemaName string) error {
	db = db.WithContext(ctx)
	if schemaName = strings.TrimSpace(schemaName); schemaName != "" {
		quoted := `"` + strings.ReplaceAll(schemaName, `"`, `""`) + `"`
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + quoted).Error; err != nil {
			return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
		}
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health round-trips SELECT 1 under the query timeout and reports the
// latency along with pool statistics.
func (s *service) Health(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(new(int))
	h := Health{Latency: time.Since(start), Stats: s.sqlDB.Stats()}
	if err != nil {
		s.log.Error("database health check failed", slog.Any("error", err))
		h.Err = err
		return h
	}
	h.OK = true

	if h.Stats.MaxOpenConnections > 0 && h.Stats.InUse >= h.Stats.MaxOpenConnections {
		s.log.Warn("connection pool exhausted",
			slog.Int("in_use", h.Stats.InUse),
			slog.Int64("wait_count", h.Stats.WaitCount))
	}
	return h
}

func (s *service) Close() error {
	s.log.Info("closing database connection pool")
	return s.sqlDB.Close()
}
