package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

type taskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Create handles POST /api/projects/:projectID/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), currentUserID(c), projectID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Task created",
		zap.Int("task_id", t.ID),
		zap.Int("project_id", projectID),
	)
	c.JSON(http.StatusCreated, gin.H{"task": t})
}

// List handles GET /api/projects/:projectID/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByProject(c.Request.Context(), currentUserID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Get handles GET /api/projects/:projectID/tasks/:taskID
func (h *TaskHandler) Get(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), currentUserID(c), projectID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// Update handles PUT /api/projects/:projectID/tasks/:taskID
func (h *TaskHandler) Update(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.taskService.Update(c.Request.Context(), currentUserID(c), projectID, taskID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// UpdateStatus handles POST /api/projects/:projectID/tasks/:taskID/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := currentUserID(c)
	h.logger.Info("UpdateStatus request received",
		zap.Int("task_id", taskID),
		zap.Int("user_id", userID),
		zap.String("status", req.Status),
	)

	t, err := h.taskService.SetStatus(c.Request.Context(), userID, projectID, taskID, req.Status)
	if err != nil {
		h.logger.Warn("UpdateStatus failed",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// Delete handles DELETE /api/projects/:projectID/tasks/:taskID
func (h *TaskHandler) Delete(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), currentUserID(c), projectID, taskID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Task deleted", zap.Int("task_id", taskID))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
