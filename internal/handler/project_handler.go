package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

type projectRequest struct {
	Name        string `json:"name" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), currentUserID(c), req.Name, req.ClientName, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Project created",
		zap.Int("project_id", p.ID),
		zap.Int("manager_id", p.ManagerID),
	)
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get handles GET /api/projects/:projectID
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	p, err := h.projectService.Get(c.Request.Context(), currentUserID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Update handles PUT /api/projects/:projectID
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), currentUserID(c), projectID, req.Name, req.ClientName, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Delete handles DELETE /api/projects/:projectID
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), currentUserID(c), projectID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Project deleted", zap.Int("project_id", projectID))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
