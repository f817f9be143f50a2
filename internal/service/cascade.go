package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/metrics"
)

// CascadeManager removes dependent children before their parent so a
// crash mid-cascade can only leave dangling children of a still
// resolvable parent, never orphans of a deleted one. The store gives no
// multi-record transactions, so ordering is the whole contract here:
// notes, then tasks, then the project. On any failure the parent stays
// and the operation reports ErrCascadeIncomplete; re-running the delete
// finishes the remaining children (child deletes are idempotent).
type CascadeManager struct {
	projects ProjectStore
	tasks    TaskStore
	notes    NoteStore
	logger   *zap.Logger
}

func NewCascadeManager(projects ProjectStore, tasks TaskStore, notes NoteStore, logger *zap.Logger) *CascadeManager {
	return &CascadeManager{
		projects: projects,
		tasks:    tasks,
		notes:    notes,
		logger:   logger,
	}
}

// DeleteTask removes a task's notes, then the task itself. Returns the
// number of notes removed. A task that is already gone surfaces as
// ErrTaskNotFound, which makes a second delete of the same id a clean
// miss rather than a partial failure.
func (m *CascadeManager) DeleteTask(ctx context.Context, taskID int) (int, error) {
	removed, err := m.notes.DeleteByTask(ctx, taskID)
	if err != nil {
		metrics.IncrementCascadeDelete("task", "incomplete")
		return removed, fmt.Errorf("%w: deleting notes of task %d: %v", model.ErrCascadeIncomplete, taskID, err)
	}

	if err := m.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			return removed, err
		}
		metrics.IncrementCascadeDelete("task", "incomplete")
		return removed, fmt.Errorf("%w: deleting task %d: %v", model.ErrCascadeIncomplete, taskID, err)
	}

	m.logger.Info("Task cascade complete",
		zap.Int("task_id", taskID),
		zap.Int("notes_removed", removed),
	)
	metrics.IncrementCascadeDelete("task", "success")
	return removed, nil
}

// DeleteProject removes every task of the project (each one notes
// first), then the project record. Returns the number of tasks removed.
func (m *CascadeManager) DeleteProject(ctx context.Context, projectID int) (int, error) {
	tasks, err := m.tasks.ListByProject(ctx, projectID)
	if err != nil {
		metrics.IncrementCascadeDelete("project", "incomplete")
		return 0, fmt.Errorf("%w: listing tasks of project %d: %v", model.ErrCascadeIncomplete, projectID, err)
	}

	removed := 0
	for _, t := range tasks {
		if _, err := m.DeleteTask(ctx, t.ID); err != nil {
			// A task deleted by a concurrent retry is already done.
			if errors.Is(err, model.ErrTaskNotFound) {
				continue
			}
			metrics.IncrementCascadeDelete("project", "incomplete")
			return removed, fmt.Errorf("%w: cascading task %d of project %d: %v", model.ErrCascadeIncomplete, t.ID, projectID, err)
		}
		removed++
	}

	if err := m.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			return removed, err
		}
		metrics.IncrementCascadeDelete("project", "incomplete")
		return removed, fmt.Errorf("%w: deleting project %d: %v", model.ErrCascadeIncomplete, projectID, err)
	}

	m.logger.Info("Project cascade complete",
		zap.Int("project_id", projectID),
		zap.Int("tasks_removed", removed),
	)
	metrics.IncrementCascadeDelete("project", "success")
	return removed, nil
}
