package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
)

type NoteRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNoteRepository(db *pgxpool.Pool, logger *zap.Logger) *NoteRepository {
	return &NoteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *NoteRepository) Insert(ctx context.Context, n *model.Note) (int, error) {
	query := `
        INSERT INTO notes (task_id, author_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, n.TaskID, n.AuthorID, n.Content).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert note", zap.Int("task_id", n.TaskID), zap.Error(err))
		return 0, err
	}
	return n.ID, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id int) (*model.Note, error) {
	query := `
        SELECT id, task_id, author_id, content, created_at
        FROM notes
        WHERE id = $1
    `
	var n model.Note
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.TaskID, &n.AuthorID, &n.Content, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) ListByTask(ctx context.Context, taskID int) ([]model.Note, error) {
	query := `
        SELECT id, task_id, author_id, content, created_at
        FROM notes
        WHERE task_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to list notes", zap.Int("task_id", taskID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.TaskID, &n.AuthorID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete note", zap.Int("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

// DeleteByTask removes every note of a task. Deleting zero rows is
// fine, which keeps cascade retries idempotent.
func (r *NoteRepository) DeleteByTask(ctx context.Context, taskID int) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE task_id = $1`, taskID)
	if err != nil {
		r.logger.Error("Failed to delete notes for task", zap.Int("task_id", taskID), zap.Error(err))
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
