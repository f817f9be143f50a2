package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/metrics"
	"project-service/pkg/mq"
)

type TaskService struct {
	projects  ProjectStore
	tasks     TaskStore
	authz     *Authorizer
	cascade   *CascadeManager
	publisher EventPublisher
	logger    *zap.Logger
}

func NewTaskService(projects ProjectStore, tasks TaskStore, authz *Authorizer, cascade *CascadeManager, publisher EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		projects:  projects,
		tasks:     tasks,
		authz:     authz,
		cascade:   cascade,
		publisher: publisher,
		logger:    logger,
	}
}

// scope resolves the project and the task addressed through it. A task
// whose stored project reference does not match the addressed project
// is reported as not found, before any role check, so task existence
// never leaks across projects.
func (s *TaskService) scope(ctx context.Context, projectID, taskID int) (*model.Project, *model.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if t.ProjectID != p.ID {
		return nil, nil, model.ErrTaskNotFound
	}
	return p, t, nil
}

// Create adds a task to a project. Manager only. New tasks start out
// pending with an empty status history.
func (s *TaskService) Create(ctx context.Context, userID, projectID int, name, description string) (*model.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: task name and description are required", model.ErrValidation)
	}

	t := &model.Task{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Status:      model.TaskStatusPending,
	}
	if _, err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByProject returns the project's tasks. Manager or member.
func (s *TaskService) ListByProject(ctx context.Context, userID, projectID int) ([]model.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// Get returns one task with its status history. Manager or member.
func (s *TaskService) Get(ctx context.Context, userID, projectID, taskID int) (*model.Task, error) {
	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the task's name and description. Manager only.
func (s *TaskService) Update(ctx context.Context, userID, projectID, taskID int, name, description string) (*model.Task, error) {
	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: task name and description are required", model.ErrValidation)
	}

	t.Name = name
	t.Description = description
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetStatus applies a status transition. Any of the five statuses may
// follow any other; the workflow deliberately does not order them. The
// transition is recorded in the task's append-only history along with
// the acting user. Manager or member.
func (s *TaskService) SetStatus(ctx context.Context, userID, projectID, taskID int, rawStatus string) (*model.Task, error) {
	status, err := model.ParseTaskStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, err
	}

	entry := model.StatusEntry{UserID: userID, Status: status}
	if err := s.tasks.AppendStatusEntry(ctx, taskID, &entry); err != nil {
		s.logger.Error("Status updated but history append failed",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		return nil, err
	}

	t.Status = status
	t.CompletedBy = append(t.CompletedBy, entry)
	metrics.IncrementStatusTransition(string(status))

	s.logger.Info("Task status changed",
		zap.Int("task_id", taskID),
		zap.Int("user_id", userID),
		zap.String("status", string(status)),
	)

	if s.publisher != nil {
		payload := mq.TaskStatusChangedPayload{
			TaskID:    taskID,
			ProjectID: projectID,
			UserID:    userID,
			Status:    string(status),
			ChangedAt: entry.ChangedAt,
		}
		if err := s.publisher.Publish(mq.RoutingKeyTaskStatusChanged, payload); err != nil {
			s.logger.Warn("Failed to publish task.status_changed event",
				zap.Int("task_id", taskID),
				zap.Error(err),
			)
		}
	}
	return t, nil
}

// Delete removes the task and its notes. Manager only.
func (s *TaskService) Delete(ctx context.Context, userID, projectID, taskID int) error {
	p, _, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return err
	}

	notesRemoved, err := s.cascade.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}

	if s.publisher != nil {
		payload := mq.TaskDeletedPayload{
			TaskID:       taskID,
			ProjectID:    projectID,
			NotesRemoved: notesRemoved,
			DeletedAt:    time.Now(),
		}
		if err := s.publisher.Publish(mq.RoutingKeyTaskDeleted, payload); err != nil {
			s.logger.Warn("Failed to publish task.deleted event",
				zap.Int("task_id", taskID),
				zap.Error(err),
			)
		}
	}
	return nil
}
