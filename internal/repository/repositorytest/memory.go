// Package repositorytest provides an in-memory TaskRepository for tests of
// the layers above the store.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/repository"
)

// MemoryRepository keeps tasks in a map. Err, when set, is returned by
// every call instead of touching the data.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task

	Err error
}

var _ repository.TaskRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository whose first id is 1.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, tasks: make(map[int64]domain.Task)}
}

func (m *MemoryRepository) List(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("find task %d: %w", id, repository.ErrNotFound)
	}
	t = clone(t)
	return &t, nil
}

func (m *MemoryRepository) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = clone(*task)
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("update task %d: %w", id, repository.ErrNotFound)
	}
	if title, ok := patch.Title.Get(); ok {
		t.Title = title
	}
	if desc, ok := patch.Description.Get(); ok {
		t.Description = &desc
	} else if patch.Description.IsNull() {
		t.Description = nil
	}
	if done, ok := patch.Done.Get(); ok {
		t.Done = done
	}
	m.tasks[id] = t
	t = clone(t)
	return &t, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("delete task %d: %w", id, repository.ErrNotFound)
	}
	delete(m.tasks, id)
	return &t, nil
}

// Len returns the number of stored tasks.
func (m *MemoryRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func clone(t domain.Task) domain.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
