package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"task_manager/internal/middleware"
	"task_manager/internal/model"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task CRUD requests
type TaskHandler struct {
	service service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{service: s}
}

func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task id"})
		return 0, false
	}
	return id, true
}

// ListTasks returns one page of all tasks, newest first. Any authenticated
// user sees every task; ownership only matters for reads by id.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageLimit)))
	if err != nil {
		limit = service.DefaultPageLimit
	}

	result, err := h.service.ListTasks(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result.Tasks, "meta": result.Meta})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	task, err := h.service.GetTaskByID(c.Request.Context(), taskID, user.ID, user.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, service.ErrTaskForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not allowed to access this task"})
		default:
			log.Printf("Error getting task %d: %v", taskID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status"})
		default:
			log.Printf("Error creating task: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": task})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	var req model.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), taskID, user.ID, user.Role, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status"})
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, service.ErrTaskForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not allowed to edit this task"})
		default:
			log.Printf("Error updating task %d: %v", taskID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// DeleteTask removes a task. The route's admin middleware runs before the id
// is even parsed, so non-admins get 403 regardless of the id's validity or
// existence.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
			return
		}
		log.Printf("Error deleting task %d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// RegisterTaskRoutes registers task routes behind the auth middleware
func (h *TaskHandler) RegisterTaskRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	taskGroup := rg.Group("/tasks")
	taskGroup.Use(authMW)
	{
		taskGroup.GET("", h.ListTasks)
		taskGroup.POST("", h.CreateTask)
		taskGroup.GET("/:id", h.GetTaskByID)
		taskGroup.PUT("/:id", h.UpdateTask)
		taskGroup.DELETE("/:id", adminMW, h.DeleteTask)
	}
}
