package service

import (
	"context"

	"project-service/internal/model"
)

// Store contracts implemented by the pgx repositories. Services depend
// on these rather than the concrete repositories so the policy code
// (authorization, state machine, cascade) is testable against fakes.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) (int, error)
	GetByID(ctx context.Context, id int) (*model.Project, error)
	ListForUser(ctx context.Context, userID int) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int) error
	ListTeamIDs(ctx context.Context, projectID int) ([]int, error)
	ListTeamMembers(ctx context.Context, projectID int) ([]model.User, error)
	AddTeamMember(ctx context.Context, projectID, userID int) error
	RemoveTeamMember(ctx context.Context, projectID, userID int) error
}

type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) (int, error)
	GetByID(ctx context.Context, id int) (*model.Task, error)
	ListByProject(ctx context.Context, projectID int) ([]model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	UpdateStatus(ctx context.Context, id int, status model.TaskStatus) error
	AppendStatusEntry(ctx context.Context, taskID int, entry *model.StatusEntry) error
	Delete(ctx context.Context, id int) error
}

type NoteStore interface {
	Insert(ctx context.Context, n *model.Note) (int, error)
	GetByID(ctx context.Context, id int) (*model.Note, error)
	ListByTask(ctx context.Context, taskID int) ([]model.Note, error)
	Delete(ctx context.Context, id int) error
	DeleteByTask(ctx context.Context, taskID int) (int, error)
}

// EventPublisher is the mq publisher surface the services use.
// Publishing is best effort; a broker outage never fails a request.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
