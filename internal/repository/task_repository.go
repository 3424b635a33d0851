package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/task-tracker/internal/domain"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrTimeout is returned when a query runs past the store timeout.
	ErrTimeout = errors.New("store query timed out")
)

// queryCanceledCode is the SQLSTATE postgres reports for statement_timeout
// and cancelled queries.
const queryCanceledCode = "57014"

// TaskRepository defines the data operations on tasks.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) (*domain.Task, error)
}

// gormTaskRepository implements TaskRepository using GORM.
type gormTaskRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormTaskRepository creates a repository whose queries are each bounded
// by timeout.
func NewGormTaskRepository(db *gorm.DB, timeout time.Duration) TaskRepository {
	return &gormTaskRepository{db: db, timeout: timeout}
}

func (r *gormTaskRepository) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

// List returns all tasks ordered by id.
func (r *gormTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	tasks := make([]domain.Task, 0)
	if err := db.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, mapError("list tasks", err)
	}
	return tasks, nil
}

// FindByID retrieves a task by its id.
func (r *gormTaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var task domain.Task
	if err := db.Take(&task, id).Error; err != nil {
		return nil, mapError(fmt.Sprintf("find task %d", id), err)
	}
	return &task, nil
}

// Create inserts task and fills in the generated id.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	// Select keeps gorm from skipping done=false in favour of the column
	// default, so the inserted row always matches the request.
	if err := db.Select("Title", "Description", "Done").Create(task).Error; err != nil {
		return mapError("create task", err)
	}
	return nil
}

// Update writes only the supplied fields of patch in a single
// UPDATE ... RETURNING statement.
func (r *gormTaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	changes := patchColumns(patch)
	if len(changes) == 0 {
		return r.FindByID(ctx, id)
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var task domain.Task
	result := db.Model(&task).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return nil, mapError(fmt.Sprintf("update task %d", id), result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	return &task, nil
}

// Delete removes a task and returns the deleted row.
func (r *gormTaskRepository) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var task domain.Task
	result := db.Clauses(clause.Returning{}).Where("id = ?", id).Delete(&task)
	if result.Error != nil {
		return nil, mapError(fmt.Sprintf("delete task %d", id), result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}
	return &task, nil
}

// patchColumns converts a patch to a column map. A null description is kept
// as a nil value so gorm writes NULL.
func patchColumns(patch domain.TaskPatch) map[string]any {
	changes := make(map[string]any, 3)
	if title, ok := patch.Title.Get(); ok {
		changes["title"] = title
	}
	if desc, ok := patch.Description.Get(); ok {
		changes["description"] = desc
	} else if patch.Description.IsNull() {
		changes["description"] = nil
	}
	if done, ok := patch.Done.Get(); ok {
		changes["done"] = done
	}
	return changes
}

// mapError wraps err with op and the matching sentinel.
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isTimeout(err):
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == queryCanceledCode
}
