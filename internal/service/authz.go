package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"project-service/internal/model"
)

// Role is a caller's relationship to a single project.
type Role string

const (
	RoleManager      Role = "manager"
	RoleMember       Role = "member"
	RoleUnauthorized Role = "unauthorized"
)

const teamCacheTTL = time.Minute

// ClassifyRole derives the caller's role from the project record and
// its team. The manager always outranks team membership, even when the
// manager also appears in the team list.
func ClassifyRole(userID int, project *model.Project, teamIDs []int) Role {
	if project.ManagerID == userID {
		return RoleManager
	}
	for _, id := range teamIDs {
		if id == userID {
			return RoleMember
		}
	}
	return RoleUnauthorized
}

// Authorizer resolves caller roles, caching team membership in Redis so
// the per-request role check does not hit Postgres every time. The
// cache is optional; with a nil client every lookup goes to the store.
type Authorizer struct {
	projects ProjectStore
	cache    *redis.Client
	logger   *zap.Logger
}

func NewAuthorizer(projects ProjectStore, cache *redis.Client, logger *zap.Logger) *Authorizer {
	return &Authorizer{
		projects: projects,
		cache:    cache,
		logger:   logger,
	}
}

// Role classifies the caller against the given project.
func (a *Authorizer) Role(ctx context.Context, userID int, project *model.Project) (Role, error) {
	if project.ManagerID == userID {
		return RoleManager, nil
	}

	teamIDs, err := a.teamIDs(ctx, project.ID)
	if err != nil {
		return RoleUnauthorized, err
	}
	return ClassifyRole(userID, project, teamIDs), nil
}

// Require checks that the caller holds one of the allowed roles and
// returns the classified role. Callers run this before any mutation.
func (a *Authorizer) Require(ctx context.Context, userID int, project *model.Project, allowed ...Role) (Role, error) {
	role, err := a.Role(ctx, userID, project)
	if err != nil {
		return RoleUnauthorized, err
	}
	for _, want := range allowed {
		if role == want {
			return role, nil
		}
	}
	return role, model.ErrUnauthorized
}

// InvalidateTeam drops the cached team list after a membership change.
func (a *Authorizer) InvalidateTeam(ctx context.Context, projectID int) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Del(ctx, teamCacheKey(projectID)).Err(); err != nil {
		a.logger.Warn("Failed to invalidate team cache",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
	}
}

func (a *Authorizer) teamIDs(ctx context.Context, projectID int) ([]int, error) {
	if a.cache != nil {
		raw, err := a.cache.Get(ctx, teamCacheKey(projectID)).Result()
		if err == nil {
			var ids []int
			if err := json.Unmarshal([]byte(raw), &ids); err == nil {
				return ids, nil
			}
		} else if err != redis.Nil {
			a.logger.Warn("Team cache read failed, falling back to store",
				zap.Int("project_id", projectID),
				zap.Error(err),
			)
		}
	}

	ids, err := a.projects.ListTeamIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if raw, err := json.Marshal(ids); err == nil {
			if err := a.cache.Set(ctx, teamCacheKey(projectID), raw, teamCacheTTL).Err(); err != nil {
				a.logger.Warn("Team cache write failed",
					zap.Int("project_id", projectID),
					zap.Error(err),
				)
			}
		}
	}
	return ids, nil
}

func teamCacheKey(projectID int) string {
	return fmt.Sprintf("project:%d:team", projectID)
}
