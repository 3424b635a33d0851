package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/task-tracker/internal/apperr"
	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/repository"
	"github.com/Tomlord1122/task-tracker/internal/repository/repositorytest"
)

func newTestService() (TaskService, *repositorytest.MemoryRepository) {
	repo := repositorytest.NewMemoryRepository()
	return NewTaskService(repo), repo
}

func ptr[T any](v T) *T { return &v }

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateTaskRequest
		want     *TaskResponse
		wantKind apperr.Kind
	}{
		{
			name: "title only uses defaults",
			req:  CreateTaskRequest{Title: domain.Value("Buy milk")},
			want: &TaskResponse{ID: 1, Title: "Buy milk", Description: nil, Done: false},
		},
		{
			name: "all fields",
			req: CreateTaskRequest{
				Title:       domain.Value("Buy milk"),
				Description: domain.Value("two litres"),
				Done:        domain.Value(true),
			},
			want: &TaskResponse{ID: 1, Title: "Buy milk", Description: ptr("two litres"), Done: true},
		},
		{
			name: "empty description stored as null",
			req:  CreateTaskRequest{Title: domain.Value("Buy milk"), Description: domain.Value("")},
			want: &TaskResponse{ID: 1, Title: "Buy milk"},
		},
		{
			name:     "missing title",
			req:      CreateTaskRequest{Description: domain.Value("x")},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "null title",
			req:      CreateTaskRequest{Title: domain.Null[string]()},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "empty title",
			req:      CreateTaskRequest{Title: domain.Value("")},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "null done",
			req:      CreateTaskRequest{Title: domain.Value("Buy milk"), Done: domain.Null[bool]()},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()

			got, err := svc.CreateTask(context.Background(), tt.req)
			if tt.want == nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Equal(t, 0, repo.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, err := svc.GetTask(context.Background(), got.ID)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	tests := []struct {
		name     string
		req      UpdateTaskRequest
		want     *TaskResponse
		wantKind apperr.Kind
	}{
		{
			name: "done only leaves other fields",
			req:  UpdateTaskRequest{Done: domain.Value(true)},
			want: &TaskResponse{ID: 1, Title: "Buy milk", Description: ptr("two litres"), Done: true},
		},
		{
			name: "title only",
			req:  UpdateTaskRequest{Title: domain.Value("Buy oat milk")},
			want: &TaskResponse{ID: 1, Title: "Buy oat milk", Description: ptr("two litres")},
		},
		{
			name: "null description clears it",
			req:  UpdateTaskRequest{Description: domain.Null[string]()},
			want: &TaskResponse{ID: 1, Title: "Buy milk"},
		},
		{
			name: "empty description clears it",
			req:  UpdateTaskRequest{Description: domain.Value("")},
			want: &TaskResponse{ID: 1, Title: "Buy milk"},
		},
		{
			name:     "no fields",
			req:      UpdateTaskRequest{},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "empty title",
			req:      UpdateTaskRequest{Title: domain.Value("")},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "null title",
			req:      UpdateTaskRequest{Title: domain.Null[string]()},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "null done",
			req:      UpdateTaskRequest{Done: domain.Null[bool]()},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			ctx := context.Background()
			_, err := svc.CreateTask(ctx, CreateTaskRequest{
				Title:       domain.Value("Buy milk"),
				Description: domain.Value("two litres"),
			})
			require.NoError(t, err)

			got, err := svc.UpdateTask(ctx, 1, tt.req)
			if tt.want == nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingTaskIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetTask(ctx, 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.UpdateTask(ctx, 99, UpdateTaskRequest{Done: domain.Value(true)})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.DeleteTask(ctx, 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskRequest{Title: domain.Value("Buy milk")})
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = svc.GetTask(ctx, created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListTasks(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.CreateTask(ctx, CreateTaskRequest{Title: domain.Value(title)})
		require.NoError(t, err)
	}

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, int64(i+1), task.ID)
	}
}

func TestStoreErrorsAreTranslated(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperr.Kind
	}{
		{"driver failure", errors.New("connection refused"), apperr.KindStore},
		{"timeout", fmt.Errorf("list tasks: %w", repository.ErrTimeout), apperr.KindTimeout},
		{"canceled", fmt.Errorf("list tasks: %w", context.Canceled), apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			repo.Err = tt.err

			_, err := svc.ListTasks(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
