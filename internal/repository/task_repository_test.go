package repository_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/task-tracker/internal/database"
	"github.com/Tomlord1122/task-tracker/internal/database/databasetest"
	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/repository"
)

func newRepository(t *testing.T) (repository.TaskRepository, database.Service) {
	t.Helper()

	cfg := databasetest.Config(t)
	db, err := database.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.GetDB().Exec("TRUNCATE app.tasks RESTART IDENTITY").Error)
	return repository.NewGormTaskRepository(db.GetDB(), cfg.QueryTimeout), db
}

func TestGormTaskRepositoryCRUD(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	milk := &domain.Task{Title: "Buy milk"}
	require.NoError(t, repo.Create(ctx, milk))
	assert.Equal(t, int64(1), milk.ID)

	desc := "before friday"
	bread := &domain.Task{Title: "Buy bread", Description: &desc, Done: true}
	require.NoError(t, repo.Create(ctx, bread))
	assert.Equal(t, int64(2), bread.ID)

	got, err := repo.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Task{ID: 1, Title: "Buy milk", Description: nil, Done: false}, *got)

	tasks, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, int64(2), tasks[1].ID)

	updated, err := repo.Update(ctx, milk.ID, domain.TaskPatch{Done: domain.Value(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.True(t, updated.Done)
	assert.Nil(t, updated.Description)

	updated, err = repo.Update(ctx, bread.ID, domain.TaskPatch{Description: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "Buy bread", updated.Title)
	assert.True(t, updated.Done)

	deleted, err := repo.Delete(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", deleted.Title)

	_, err = repo.FindByID(ctx, milk.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormTaskRepositoryNotFound(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Update(ctx, 42, domain.TaskPatch{Done: domain.Value(true)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Delete(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormTaskRepositoryTimeout(t *testing.T) {
	repo, _ := newRepository(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, repository.ErrTimeout)
}
