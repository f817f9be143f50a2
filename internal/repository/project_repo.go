package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/metrics"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int, error) {
	r.logger.Debug("Inserting project",
		zap.Int("manager_id", p.ManagerID),
		zap.String("name", p.Name),
	)

	query := `
        INSERT INTO projects (name, client_name, description, manager_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.ClientName,
		p.Description,
		p.ManagerID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("id", p.ID),
		zap.Int("manager_id", p.ManagerID),
	)
	return p.ID, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	query := `
        SELECT id, name, client_name, description, manager_id, created_at, updated_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.ClientName, &p.Description, &p.ManagerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListForUser returns every project the user manages or belongs to.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int) ([]model.Project, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "projects", time.Since(start))
	}()

	query := `
        SELECT id, name, client_name, description, manager_id, created_at, updated_at
        FROM projects
        WHERE manager_id = $1
           OR id IN (SELECT project_id FROM project_team WHERE user_id = $1)
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.ClientName, &p.Description, &p.ManagerID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET name = $1, client_name = $2, description = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query, p.Name, p.ClientName, p.Description, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProjectNotFound
		}
		r.logger.Error("Failed to update project", zap.Int("id", p.ID), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes the project record and its team rows. Tasks and notes
// must already be gone; the cascade manager owns that ordering.
func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM project_team WHERE project_id = $1`, id); err != nil {
		r.logger.Error("Failed to delete project team rows", zap.Int("project_id", id), zap.Error(err))
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProjectNotFound
	}

	r.logger.Info("Project deleted", zap.Int("id", id))
	return nil
}

// ListTeamIDs returns the ids of the project's team members.
func (r *ProjectRepository) ListTeamIDs(ctx context.Context, projectID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM project_team WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListTeamMembers returns the project's team members as user records.
func (r *ProjectRepository) ListTeamMembers(ctx context.Context, projectID int) ([]model.User, error) {
	query := `
        SELECT u.id, u.name, u.email, u.created_at
        FROM users u
        JOIN project_team pt ON pt.user_id = u.id
        WHERE pt.project_id = $1
        ORDER BY u.id ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list team members", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var members []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

// AddTeamMember adds a user to the project team. Adding an existing
// member is a no-op.
func (r *ProjectRepository) AddTeamMember(ctx context.Context, projectID, userID int) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO project_team (project_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (project_id, user_id) DO NOTHING
    `, projectID, userID)
	if err != nil {
		r.logger.Error("Failed to add team member",
			zap.Int("project_id", projectID),
			zap.Int("user_id", userID),
			zap.Error(err),
		)
	}
	return err
}

func (r *ProjectRepository) RemoveTeamMember(ctx context.Context, projectID, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM project_team WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
