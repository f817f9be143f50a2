package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/mq"
)

type ProjectService struct {
	projects  ProjectStore
	authz     *Authorizer
	cascade   *CascadeManager
	publisher EventPublisher
	logger    *zap.Logger
}

func NewProjectService(projects ProjectStore, authz *Authorizer, cascade *CascadeManager, publisher EventPublisher, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects:  projects,
		authz:     authz,
		cascade:   cascade,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores a new project with the caller as manager.
func (s *ProjectService) Create(ctx context.Context, userID int, name, clientName, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	clientName = strings.TrimSpace(clientName)
	description = strings.TrimSpace(description)
	if name == "" || clientName == "" || description == "" {
		return nil, fmt.Errorf("%w: project name, client name and description are required", model.ErrValidation)
	}

	p := &model.Project{
		Name:        name,
		ClientName:  clientName,
		Description: description,
		ManagerID:   userID,
	}
	if _, err := s.projects.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the projects the caller manages or belongs to.
func (s *ProjectService) List(ctx context.Context, userID int) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

// Get returns one project, readable by the manager and team members.
func (s *ProjectService) Get(ctx context.Context, userID, projectID int) (*model.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the project's descriptive fields. Manager only.
func (s *ProjectService) Update(ctx context.Context, userID, projectID int, name, clientName, description string) (*model.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	clientName = strings.TrimSpace(clientName)
	description = strings.TrimSpace(description)
	if name == "" || clientName == "" || description == "" {
		return nil, fmt.Errorf("%w: project name, client name and description are required", model.ErrValidation)
	}

	p.Name = name
	p.ClientName = clientName
	p.Description = description
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and everything under it. Manager only.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID int) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return err
	}

	tasksRemoved, err := s.cascade.DeleteProject(ctx, projectID)
	if err != nil {
		return err
	}
	s.authz.InvalidateTeam(ctx, projectID)

	if s.publisher != nil {
		payload := mq.ProjectDeletedPayload{
			ProjectID:    projectID,
			TasksRemoved: tasksRemoved,
			DeletedAt:    time.Now(),
		}
		if err := s.publisher.Publish(mq.RoutingKeyProjectDeleted, payload); err != nil {
			s.logger.Warn("Failed to publish project.deleted event",
				zap.Int("project_id", projectID),
				zap.Error(err),
			)
		}
	}
	return nil
}
