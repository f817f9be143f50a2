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

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	r.logger.Debug("Inserting task",
		zap.Int("project_id", t.ProjectID),
		zap.String("name", t.Name),
	)

	query := `
        INSERT INTO tasks (project_id, name, description, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ProjectID,
		t.Name,
		t.Description,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Task inserted successfully",
		zap.Int("id", t.ID),
		zap.Int("project_id", t.ProjectID),
	)
	return t.ID, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (*model.Task, error) {
	query := `
        SELECT id, project_id, name, description, status, created_at, updated_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTaskNotFound
		}
		return nil, err
	}

	history, err := r.ListStatusHistory(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.CompletedBy = history

	return &t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int) ([]model.Task, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "tasks", time.Since(start))
	}()

	query := `
        SELECT id, project_id, name, description, status, created_at, updated_at
        FROM tasks
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET name = $1, description = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query, t.Name, t.Description, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrTaskNotFound
		}
		r.logger.Error("Failed to update task", zap.Int("id", t.ID), zap.Error(err))
		return err
	}
	return nil
}

// UpdateStatus sets the current status field. Single-row update, so a
// concurrent caller simply wins last.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int, status model.TaskStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		r.logger.Error("Failed to update task status", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// AppendStatusEntry appends one record to the task's status history.
func (r *TaskRepository) AppendStatusEntry(ctx context.Context, taskID int, entry *model.StatusEntry) error {
	query := `
        INSERT INTO task_status_history (task_id, user_id, status)
        VALUES ($1, $2, $3)
        RETURNING changed_at
    `
	return r.db.QueryRow(ctx, query, taskID, entry.UserID, entry.Status).
		Scan(&entry.ChangedAt)
}

func (r *TaskRepository) ListStatusHistory(ctx context.Context, taskID int) ([]model.StatusEntry, error) {
	query := `
        SELECT user_id, status, changed_at
        FROM task_status_history
        WHERE task_id = $1
        ORDER BY changed_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.StatusEntry
	for rows.Next() {
		var e model.StatusEntry
		if err := rows.Scan(&e.UserID, &e.Status, &e.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

// Delete removes the task record and its status history. Notes must
// already be gone; the cascade manager owns that ordering. The history
// rows go first so a crash in between leaves a resolvable task.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM task_status_history WHERE task_id = $1`, id); err != nil {
		r.logger.Error("Failed to delete task status history", zap.Int("task_id", id), zap.Error(err))
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}

	r.logger.Info("Task deleted", zap.Int("id", id))
	return nil
}
