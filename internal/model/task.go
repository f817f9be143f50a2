package model

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusOnHold      TaskStatus = "onHold"
	TaskStatusInProgress  TaskStatus = "inProgress"
	TaskStatusUnderReview TaskStatus = "underReview"
	TaskStatusCompleted   TaskStatus = "completed"
)

// ParseTaskStatus maps a raw string onto the fixed status set.
// Anything outside the five known values is a validation failure.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusOnHold, TaskStatusInProgress,
		TaskStatusUnderReview, TaskStatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown task status %q", ErrValidation, s)
}

type Task struct {
	ID          int           `json:"id"`
	ProjectID   int           `json:"project_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      TaskStatus    `json:"status"`
	CompletedBy []StatusEntry `json:"completed_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// StatusEntry is one record of the append-only status history:
// who moved the task and to which status.
type StatusEntry struct {
	UserID    int        `json:"user_id"`
	Status    TaskStatus `json:"status"`
	ChangedAt time.Time  `json:"changed_at"`
}
