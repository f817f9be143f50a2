package mq

import "time"

// Routing keys for domain events published to the events exchange.
const (
	RoutingKeyTaskStatusChanged = "task.status_changed"
	RoutingKeyTaskDeleted       = "task.deleted"
	RoutingKeyProjectDeleted    = "project.deleted"
)

type TaskStatusChangedPayload struct {
	TaskID    int       `json:"task_id"`
	ProjectID int       `json:"project_id"`
	UserID    int       `json:"user_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type TaskDeletedPayload struct {
	TaskID       int       `json:"task_id"`
	ProjectID    int       `json:"project_id"`
	NotesRemoved int       `json:"notes_removed"`
	DeletedAt    time.Time `json:"deleted_at"`
}

type ProjectDeletedPayload struct {
	ProjectID    int       `json:"project_id"`
	TasksRemoved int       `json:"tasks_removed"`
	DeletedAt    time.Time `json:"deleted_at"`
}
