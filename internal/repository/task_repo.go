package repository

import (
	"context"
	"errors"
	"fmt"

	"task_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// TaskRepository defines operations for task data
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	FindPage(ctx context.Context, limit, offset int) ([]model.Task, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type taskRepository struct {
	db Querier
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db Querier) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task. The database assigns id and both timestamps.
func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	sql := `INSERT INTO tasks (user_id, title, description, status)
            VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, t.UserID, t.Title, t.Description, t.Status).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task joined with its owner's email.
// Returns (nil, nil) when no row matches.
func (r *taskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	t := &model.Task{}
	sql := `SELECT tasks.id, tasks.user_id, tasks.title, tasks.description, tasks.status,
                   tasks.created_at, tasks.updated_at, users.email AS owner_email
            FROM tasks
            INNER JOIN users ON users.id = tasks.user_id
            WHERE tasks.id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
		&t.CreatedAt, &t.UpdatedAt, &t.OwnerEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return t, nil
}

// FindPage retrieves one page of tasks, newest first, joined with each
// owner's email and role.
func (r *taskRepository) FindPage(ctx context.Context, limit, offset int) ([]model.Task, error) {
	sql := `SELECT tasks.id, tasks.user_id, tasks.title, tasks.description, tasks.status,
                   tasks.created_at, tasks.updated_at,
                   users.email AS owner_email, users.role AS owner_role
            FROM tasks
            INNER JOIN users ON users.id = tasks.user_id
            ORDER BY tasks.created_at DESC
            LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query task page: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt, &t.OwnerEmail, &t.OwnerRole,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// CountAll returns the total number of tasks across all users
func (r *taskRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	sql := `SELECT COUNT(*) AS total FROM tasks`
	if err := r.db.QueryRow(ctx, sql).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

// Update replaces a task's title, description and status.
// The updated_at trigger refreshes the timestamp.
func (r *taskRepository) Update(ctx context.Context, t *model.Task) error {
	sql := `UPDATE tasks SET title = $1, description = $2, status = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, t.Title, t.Description, t.Status, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("task %d not found for update", t.ID)
	}
	return nil
}

// Delete removes a task. The bool reports whether a row was deleted.
func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	sql := `DELETE FROM tasks WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
