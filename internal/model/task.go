package model

import "time"

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task represents a single work item owned by a user
type Task struct {
	ID          int64     `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"` // Stored as "" when absent, never null
	Status      string    `json:"status"`      // "pending" or "completed"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerEmail  string    `json:"owner_email,omitempty"` // Populated on joined reads
	OwnerRole   string    `json:"owner_role,omitempty"`  // Populated on list reads only
}

// CreateTaskRequest is used for creating a new task
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"` // Pointer so "absent" and "" both normalize to ""
	Status      string  `json:"status" binding:"omitempty,oneof=pending completed"`
}

// UpdateTaskRequest replaces a task's mutable fields wholesale
type UpdateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending completed"`
}

// ListMeta describes one page of an offset-paginated listing
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TaskPage bundles a page of tasks with its pagination metadata
type TaskPage struct {
	Tasks []Task
	Meta  ListMeta
}
