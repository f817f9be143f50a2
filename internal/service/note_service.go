package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"project-service/internal/model"
)

type NoteService struct {
	projects ProjectStore
	tasks    TaskStore
	notes    NoteStore
	authz    *Authorizer
	logger   *zap.Logger
}

func NewNoteService(projects ProjectStore, tasks TaskStore, notes NoteStore, authz *Authorizer, logger *zap.Logger) *NoteService {
	return &NoteService{
		projects: projects,
		tasks:    tasks,
		notes:    notes,
		authz:    authz,
		logger:   logger,
	}
}

// scope resolves the project and task a note is addressed through,
// rejecting cross-project task references as not found.
func (s *NoteService) scope(ctx context.Context, projectID, taskID int) (*model.Project, *model.Task, error) {
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

// Create attaches a note to a task. Manager or member.
func (s *NoteService) Create(ctx context.Context, userID, projectID, taskID int, content string) (*model.Note, error) {
	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: note content is required", model.ErrValidation)
	}

	n := &model.Note{
		TaskID:   t.ID,
		AuthorID: userID,
		Content:  content,
	}
	if _, err := s.notes.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListByTask returns a task's notes. Manager or member.
func (s *NoteService) ListByTask(ctx context.Context, userID, projectID, taskID int) ([]model.Note, error) {
	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}
	return s.notes.ListByTask(ctx, t.ID)
}

// Delete removes a note. Only the note's author or the project manager
// may delete it; a note addressed through the wrong task is not found.
func (s *NoteService) Delete(ctx context.Context, userID, projectID, taskID, noteID int) error {
	p, t, err := s.scope(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	role, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember)
	if err != nil {
		return err
	}

	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if n.TaskID != t.ID {
		return model.ErrNoteNotFound
	}
	if n.AuthorID != userID && role != RoleManager {
		return model.ErrUnauthorized
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return err
	}

	s.logger.Info("Note deleted",
		zap.Int("note_id", noteID),
		zap.Int("task_id", t.ID),
		zap.Int("user_id", userID),
	)
	return nil
}
