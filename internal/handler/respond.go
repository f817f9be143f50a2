package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"project-service/internal/model"
)

// respondError maps domain errors onto HTTP status codes. Ownership
// mismatches come back as the same not-found errors as missing records,
// so nothing about foreign projects leaks through the status code.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProjectNotFound),
		errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrNoteNotFound),
		errors.Is(err, model.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrCascadeIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathInt reads a numeric path parameter, answering 400 itself when the
// value is malformed.
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// currentUserID returns the authenticated caller set by AuthMiddleware.
func currentUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}
