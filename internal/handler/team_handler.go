package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/service"
)

type TeamHandler struct {
	teamService *service.TeamService
	logger      *zap.Logger
}

func NewTeamHandler(teamService *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// List handles GET /api/projects/:projectID/team
func (h *TeamHandler) List(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	members, err := h.teamService.List(c.Request.Context(), currentUserID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": members})
}

// Find handles POST /api/projects/:projectID/team/find
func (h *TeamHandler) Find(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.teamService.FindByEmail(c.Request.Context(), currentUserID(c), projectID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Add handles POST /api/projects/:projectID/team
func (h *TeamHandler) Add(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}

	var req struct {
		ID int `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.teamService.Add(c.Request.Context(), currentUserID(c), projectID, req.ID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Team member added",
		zap.Int("project_id", projectID),
		zap.Int("member_id", req.ID),
	)
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// Remove handles DELETE /api/projects/:projectID/team/:userID
func (h *TeamHandler) Remove(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	memberID, ok := pathInt(c, "userID")
	if !ok {
		return
	}

	if err := h.teamService.Remove(c.Request.Context(), currentUserID(c), projectID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
