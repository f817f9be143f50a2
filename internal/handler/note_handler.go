package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
	logger      *zap.Logger
}

func NewNoteHandler(noteService *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// Create handles POST /api/projects/:projectID/tasks/:taskID/notes
func (h *NoteHandler) Create(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	n, err := h.noteService.Create(c.Request.Context(), currentUserID(c), projectID, taskID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": n})
}

// List handles GET /api/projects/:projectID/tasks/:taskID/notes
func (h *NoteHandler) List(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}

	notes, err := h.noteService.ListByTask(c.Request.Context(), currentUserID(c), projectID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// Delete handles DELETE /api/projects/:projectID/tasks/:taskID/notes/:noteID
func (h *NoteHandler) Delete(c *gin.Context) {
	projectID, ok := pathInt(c, "projectID")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskID")
	if !ok {
		return
	}
	noteID, ok := pathInt(c, "noteID")
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), currentUserID(c), projectID, taskID, noteID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Note deleted", zap.Int("note_id", noteID))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
