package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task_manager/internal/model"
	"task_manager/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("you are not allowed to access this task")
	ErrEmptyTitle    = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid task status")
)

// DefaultPageLimit is the page size used when the client does not supply one.
// There is deliberately no upper bound on the supplied limit.
const DefaultPageLimit = 6

// TaskService defines ownership- and role-gated task operations
type TaskService interface {
	CreateTask(ctx context.Context, userID int, req model.CreateTaskRequest) (*model.Task, error)
	GetTaskByID(ctx context.Context, taskID int64, userID int, userRole string) (*model.Task, error)
	ListTasks(ctx context.Context, page, limit int) (*model.TaskPage, error)
	UpdateTask(ctx context.Context, taskID int64, userID int, userRole string, req model.UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func validStatus(status string) bool {
	return status == model.TaskStatusPending || status == model.TaskStatusCompleted
}

// CreateTask inserts a task owned by userID. Missing descriptions become "",
// missing statuses become "pending".
func (s *taskService) CreateTask(ctx context.Context, userID int, req model.CreateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	status := req.Status
	if status == "" {
		status = model.TaskStatusPending
	}
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	task := &model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task in repo: %w", err)
	}
	return task, nil
}

// GetTaskByID returns a task to its owner or to an admin. Existence is
// checked before ownership, so a missing id is NotFound for everyone.
func (s *taskService) GetTaskByID(ctx context.Context, taskID int64, userID int, userRole string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if userRole != model.RoleAdmin && task.UserID != userID {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

// ListTasks returns one page of all tasks, newest first. Out-of-range pages
// yield an empty page with accurate metadata.
func (s *taskService) ListTasks(ctx context.Context, page, limit int) (*model.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	offset := (page - 1) * limit

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks, err := s.repo.FindPage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task page: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &model.TaskPage{
		Tasks: tasks,
		Meta: model.ListMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateTask replaces a task's title, description and status. Owner or admin
// only; existence is checked before ownership.
func (s *taskService) UpdateTask(ctx context.Context, taskID int64, userID int, userRole string, req model.UpdateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	status := req.Status
	if status == "" {
		status = model.TaskStatusPending
	}
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	existing, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task for update: %w", err)
	}
	if existing == nil {
		return nil, ErrTaskNotFound
	}
	if userRole != model.RoleAdmin && existing.UserID != userID {
		return nil, ErrTaskForbidden
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	existing.Title = title
	existing.Description = description
	existing.Status = status

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update task in repo: %w", err)
	}

	// Read back the joined row so the response carries the trigger-refreshed
	// updated_at and the owner email.
	updated, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task after update: %w", err)
	}
	if updated == nil {
		return nil, ErrTaskNotFound
	}
	return updated, nil
}

// DeleteTask removes a task by id. The admin-only rule is enforced by the
// route middleware before this runs.
func (s *taskService) DeleteTask(ctx context.Context, taskID int64) error {
	deleted, err := s.repo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task in repo: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
