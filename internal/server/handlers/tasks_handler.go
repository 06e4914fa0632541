package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/service/tasks"
)

// TaskService reads and edits the Monday.com board.
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, req models.TaskRequest) (models.Task, error)
	Update(ctx context.Context, id string, req models.TaskRequest) error
}

// TasksHandler exposes the Monday.com task endpoints.
type TasksHandler struct {
	svc    TaskService
	logger *zap.Logger
}

// NewTasksHandler constructs the HTTP handler adapter.
func NewTasksHandler(svc TaskService, logger *zap.Logger) *TasksHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TasksHandler{svc: svc, logger: logger}
}

// List serves GET /api/monday/tasks.
func (h *TasksHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to fetch tasks", err)
		return
	}
	respondOK(c, http.StatusOK, items)
}

// Create serves POST /api/monday/tasks.
func (h *TasksHandler) Create(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to create task", err)
		return
	}
	respondOK(c, http.StatusCreated, task)
}

// Update serves PATCH /api/monday/tasks/:id.
func (h *TasksHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		h.fail(c, "failed to update task", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "updated": true})
}

func (h *TasksHandler) fail(c *gin.Context, message string, err error) {
	if errors.Is(err, tasks.ErrInvalidTask) {
		respondError(c, http.StatusBadRequest, message, err)
		return
	}
	h.logger.Error(message, zap.Error(err))
	respondError(c, http.StatusInternalServerError, message, err)
}
