package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/tasknest/internal/domain"
)

// TaskStore persists task records.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a task store using the given database.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create inserts a new task for the owner and returns it with its assigned id.
func (s *TaskStore) Create(ownerID, title, description string) (*domain.Task, error) {
	now := time.Now().UTC()

	res, err := s.db.sql.Exec(
		`INSERT INTO tasks (owner_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		ownerID, title, description, now.Format(time.DateTime), now.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading task id: %w", err)
	}

	return &domain.Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Get returns a task by id regardless of owner, or ErrNotFound.
// Callers are responsible for the ownership check so that "missing" and
// "exists but not yours" stay distinguishable.
func (s *TaskStore) Get(id int64) (*domain.Task, error) {
	row := s.db.sql.QueryRow(
		`SELECT id, owner_id, title, description, completed, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return task, nil
}

// ListByOwner returns the owner's tasks, newest-created-first.
// completed filters by completion state when non-nil.
func (s *TaskStore) ListByOwner(ownerID string, completed *bool) ([]domain.Task, error) {
	query := `SELECT id, owner_id, title, description, completed, created_at, updated_at
	          FROM tasks WHERE owner_id = ?`
	args := []any{ownerID}

	if completed != nil {
		query += ` AND completed = ?`
		if *completed {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Save writes back a task's mutable fields (title, description, completed)
// and its updated_at timestamp.
func (s *TaskStore) Save(task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := s.db.sql.Exec(
		`UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		task.Title, task.Description, boolToInt(task.Completed),
		task.UpdatedAt.Format(time.DateTime), task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by id.
func (s *TaskStore) Delete(id int64) error {
	res, err := s.db.sql.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var completed int
	var createdAt, updatedAt string

	err := row.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description,
		&completed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	task.Completed = completed != 0
	task.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	task.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return &task, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
