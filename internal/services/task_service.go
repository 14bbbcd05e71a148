package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/todolist/internal/models"
)

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	List(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, userID int64, title, body string) (models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (models.Task, error)
	Update(ctx context.Context, userID, taskID int64, title, body string) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// TaskService provides owner-scoped CRUD over tasks. Every query filters on
// user_id, so a task owned by someone else behaves exactly like a missing one.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

var errTaskNotFound = newError(ErrNotFound, "This task doesn't exist")

func validateTask(title, body string) error {
	if title == "" {
		return newError(ErrValidation, "Title is required.")
	}
	if body == "" {
		return newError(ErrValidation, "Body is required.")
	}
	return nil
}

// List returns every task owned by userID in insertion order.
func (s *TaskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, user_id, title, body FROM task WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Body); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts a task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int64, title, body string) (models.Task, error) {
	if err := validateTask(title, body); err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO task (user_id, title, body) VALUES (?, ?, ?)", userID, title, body)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}
	return s.Get(ctx, userID, id)
}

// Get retrieves a single task owned by userID.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (models.Task, error) {
	var t models.Task
	row := s.db.QueryRowContext(ctx, "SELECT id, user_id, title, body FROM task WHERE user_id = ? AND id = ?", userID, taskID)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, errTaskNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

// Update overwrites the title and body of a task owned by userID.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, title, body string) (models.Task, error) {
	if err := validateTask(title, body); err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE task SET title = ?, body = ? WHERE user_id = ? AND id = ?", title, body, userID, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return models.Task{}, err
	}
	return s.Get(ctx, userID, taskID)
}

// Delete removes a task owned by userID.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM task WHERE user_id = ? AND id = ?", userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errTaskNotFound
	}
	return nil
}
