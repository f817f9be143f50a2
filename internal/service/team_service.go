package service

import (
	"context"

	"go.uber.org/zap"

	"project-service/internal/model"
)

type TeamService struct {
	projects ProjectStore
	users    UserStore
	authz    *Authorizer
	logger   *zap.Logger
}

func NewTeamService(projects ProjectStore, users UserStore, authz *Authorizer, logger *zap.Logger) *TeamService {
	return &TeamService{
		projects: projects,
		users:    users,
		authz:    authz,
		logger:   logger,
	}
}

// List returns the project's team. Manager or member.
func (s *TeamService) List(ctx context.Context, userID, projectID int) ([]model.User, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager, RoleMember); err != nil {
		return nil, err
	}
	return s.projects.ListTeamMembers(ctx, projectID)
}

// FindByEmail looks up a user to invite. Manager only.
func (s *TeamService) FindByEmail(ctx context.Context, userID, projectID int, email string) (*model.User, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return nil, err
	}
	return s.users.FindByEmail(ctx, email)
}

// Add puts an existing user on the project team. Manager only.
func (s *TeamService) Add(ctx context.Context, userID, projectID, memberID int) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, memberID); err != nil {
		return err
	}
	if err := s.projects.AddTeamMember(ctx, projectID, memberID); err != nil {
		return err
	}

	s.authz.InvalidateTeam(ctx, projectID)
	s.logger.Info("Team member added",
		zap.Int("project_id", projectID),
		zap.Int("member_id", memberID),
	)
	return nil
}

// Remove takes a user off the project team. Manager only.
func (s *TeamService) Remove(ctx context.Context, userID, projectID, memberID int) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.authz.Require(ctx, userID, p, RoleManager); err != nil {
		return err
	}

	if err := s.projects.RemoveTeamMember(ctx, projectID, memberID); err != nil {
		return err
	}

	s.authz.InvalidateTeam(ctx, projectID)
	s.logger.Info("Team member removed",
		zap.Int("project_id", projectID),
		zap.Int("member_id", memberID),
	)
	return nil
}
