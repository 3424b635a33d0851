// Package databasetest starts a PostgreSQL instance for integration tests.
//
// TEST_DATABASE_URL points the tests at an existing server. Otherwise a
// throwaway container is started with testcontainers. Tests are skipped with
// -short or when neither option is available.
package databasetest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Tomlord1122/task-tracker/internal/config"
)

// Image is the container image used for integration tests.
const Image = "postgres:16-alpine"

// Config returns a database config for a ready PostgreSQL server. The
// container, if any, is terminated when the test finishes.
func Config(t *testing.T) config.DatabaseConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	cfg := config.DatabaseConfig{
		Schema:          "app",
		SSLMode:         "disable",
		QueryTimeout:    5 * time.Second,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		AutoMigrate:     true,
	}

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		cfg.URL = url
		return cfg
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, Image,
		postgres.WithDatabase("tasks"),
		postgres.WithUsername("tasks"),
		postgres.WithPassword("tasks"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	cfg.URL = url
	return cfg
}
