package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tomlord1122/task-tracker/internal/apperr"
	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/logger"
	"github.com/Tomlord1122/task-tracker/internal/repository"
)

// CreateTaskRequest holds the fields accepted when creating a task.
type CreateTaskRequest struct {
	Title       domain.Field[string]
	Description domain.Field[string]
	Done        domain.Field[bool]
}

// UpdateTaskRequest holds a partial update. Omitted fields keep their
// stored value.
type UpdateTaskRequest struct {
	Title       domain.Field[string]
	Description domain.Field[string]
	Done        domain.Field[bool]
}

// TaskResponse is the representation of a task returned to clients.
type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Done        bool    `json:"done"`
}

// TaskService defines the operations for managing tasks. Errors returned
// are *apperr.Error values.
type TaskService interface {
	ListTasks(ctx context.Context) ([]TaskResponse, error)
	GetTask(ctx context.Context, id int64) (*TaskResponse, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, id int64) (*TaskResponse, error)
}

const msgTaskNotFound = "Task not found"

// taskService implements TaskService on top of a TaskRepository.
type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a TaskService backed by repo.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListTasks(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError("list tasks", err)
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}
	return responses, nil
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get task", err)
	}
	resp := toTaskResponse(*task)
	return &resp, nil
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	title, ok := req.Title.Get()
	if !ok || title == "" {
		return nil, apperr.Validation("Title is required and must be a non-empty string")
	}
	if req.Done.IsNull() {
		return nil, apperr.Validation("Done must be a boolean")
	}
	done, _ := req.Done.Get()

	task := &domain.Task{
		Title:       title,
		Description: optionalText(req.Description),
		Done:        done,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, storeError("create task", err)
	}

	logger.FromContext(ctx).Debug("task created", slog.Int64("task_id", task.ID))
	resp := toTaskResponse(*task)
	return &resp, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*TaskResponse, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	}
	if patch.IsEmpty() {
		return nil, apperr.Validation("At least one field (title, description, done) is required")
	}
	if title, ok := patch.Title.Get(); patch.Title.IsNull() || (ok && title == "") {
		return nil, apperr.Validation("Title must be a non-empty string")
	}
	if patch.Done.IsNull() {
		return nil, apperr.Validation("Done must be a boolean")
	}
	if desc, ok := patch.Description.Get(); ok && desc == "" {
		patch.Description = domain.Null[string]()
	}

	task, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError("update task", err)
	}
	resp := toTaskResponse(*task)
	return &resp, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) (*TaskResponse, error) {
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, storeError("delete task", err)
	}

	logger.FromContext(ctx).Debug("task deleted", slog.Int64("task_id", id))
	resp := toTaskResponse(*task)
	return &resp, nil
}

// storeError translates a repository error into an *apperr.Error.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgTaskNotFound)
	case errors.Is(err, repository.ErrTimeout):
		return apperr.Timeout(op, err)
	case errors.Is(err, context.Canceled):
		return apperr.Internal(op, fmt.Errorf("request canceled: %w", err))
	default:
		return apperr.Store(op, err)
	}
}

// optionalText maps an omitted, null or empty description to NULL.
func optionalText(f domain.Field[string]) *string {
	if v, ok := f.Get(); ok && v != "" {
		return &v
	}
	return nil
}

func toTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Done:        task.Done,
	}
}
