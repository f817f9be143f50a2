package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/storetest"
)

// failingNotes injects a store failure when deleting the notes of one
// particular task.
type failingNotes struct {
	*storetest.Notes
	failTaskID int
}

func (f *failingNotes) DeleteByTask(ctx context.Context, taskID int) (int, error) {
	if taskID == f.failTaskID {
		return 0, errors.New("store unavailable")
	}
	return f.Notes.DeleteByTask(ctx, taskID)
}

func seedProject(t *testing.T, store *storetest.Store, managerID int) *model.Project {
	t.Helper()
	p := &model.Project{Name: "site", ClientName: "acme", Description: "launch", ManagerID: managerID}
	_, err := store.Projects.Insert(context.Background(), p)
	require.NoError(t, err)
	return p
}

func seedTask(t *testing.T, store *storetest.Store, projectID int) *model.Task {
	t.Helper()
	task := &model.Task{ProjectID: projectID, Name: "build", Description: "build it", Status: model.TaskStatusPending}
	_, err := store.Tasks.Insert(context.Background(), task)
	require.NoError(t, err)
	return task
}

func seedNote(t *testing.T, store *storetest.Store, taskID, authorID int) *model.Note {
	t.Helper()
	n := &model.Note{TaskID: taskID, AuthorID: authorID, Content: "remember this"}
	_, err := store.Notes.Insert(context.Background(), n)
	require.NoError(t, err)
	return n
}

func TestCascadeDeleteTask_RemovesNotesThenTask(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	manager := store.SeedUser("mia", "mia@example.com")
	p := seedProject(t, store, manager)
	task := seedTask(t, store, p.ID)
	n1 := seedNote(t, store, task.ID, manager)
	n2 := seedNote(t, store, task.ID, manager)

	cascade := NewCascadeManager(store.Projects, store.Tasks, store.Notes, zap.NewNop())

	removed, err := cascade.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, err = store.Tasks.GetByID(ctx, task.ID)
	require.True(t, errors.Is(err, model.ErrTaskNotFound))
	for _, id := range []int{n1.ID, n2.ID} {
		_, err = store.Notes.GetByID(ctx, id)
		require.True(t, errors.Is(err, model.ErrNoteNotFound))
	}

	// Parent project is untouched.
	_, err = store.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
}

func TestCascadeDeleteTask_SecondCallIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	manager := store.SeedUser("mia", "mia@example.com")
	p := seedProject(t, store, manager)
	task := seedTask(t, store, p.ID)
	seedNote(t, store, task.ID, manager)

	cascade := NewCascadeManager(store.Projects, store.Tasks, store.Notes, zap.NewNop())

	_, err := cascade.DeleteTask(ctx, task.ID)
	require.NoError(t, err)

	_, err = cascade.DeleteTask(ctx, task.ID)
	require.True(t, errors.Is(err, model.ErrTaskNotFound))

	notes, err := store.Notes.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Empty(t, notes)
}

func TestCascadeDeleteTask_NoteFailureKeepsTask(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	manager := store.SeedUser("mia", "mia@example.com")
	p := seedProject(t, store, manager)
	task := seedTask(t, store, p.ID)
	seedNote(t, store, task.ID, manager)

	notes := &failingNotes{Notes: store.Notes, failTaskID: task.ID}
	cascade := NewCascadeManager(store.Projects, store.Tasks, notes, zap.NewNop())

	_, err := cascade.DeleteTask(ctx, task.ID)
	require.True(t, errors.Is(err, model.ErrCascadeIncomplete))

	// The parent task survives, so the cascade can be retried.
	_, err = store.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
}

func TestCascadeDeleteProject_NoOrphans(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	manager := store.SeedUser("mia", "mia@example.com")
	p := seedProject(t, store, manager)
	t1 := seedTask(t, store, p.ID)
	t2 := seedTask(t, store, p.ID)
	seedNote(t, store, t1.ID, manager)
	seedNote(t, store, t1.ID, manager)
	seedNote(t, store, t2.ID, manager)

	cascade := NewCascadeManager(store.Projects, store.Tasks, store.Notes, zap.NewNop())

	removed, err := cascade.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, err = store.Projects.GetByID(ctx, p.ID)
	require.True(t, errors.Is(err, model.ErrProjectNotFound))

	tasks, err := store.Tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)

	for _, taskID := range []int{t1.ID, t2.ID} {
		notes, err := store.Notes.ListByTask(ctx, taskID)
		require.NoError(t, err)
		require.Empty(t, notes)
	}
}

func TestCascadeDeleteProject_PartialFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	manager := store.SeedUser("mia", "mia@example.com")
	p := seedProject(t, store, manager)
	t1 := seedTask(t, store, p.ID)
	t2 := seedTask(t, store, p.ID)
	seedNote(t, store, t1.ID, manager)
	seedNote(t, store, t2.ID, manager)

	notes := &failingNotes{Notes: store.Notes, failTaskID: t2.ID}
	cascade := NewCascadeManager(store.Projects, store.Tasks, notes, zap.NewNop())

	_, err := cascade.DeleteProject(ctx, p.ID)
	require.True(t, errors.Is(err, model.ErrCascadeIncomplete))

	// The project and the unprocessed task are still resolvable;
	// only children of a live parent may dangle.
	_, err = store.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	_, err = store.Tasks.GetByID(ctx, t2.ID)
	require.NoError(t, err)

	// Retry with the fault gone completes the cascade.
	healthy := NewCascadeManager(store.Projects, store.Tasks, store.Notes, zap.NewNop())
	_, err = healthy.DeleteProject(ctx, p.ID)
	require.NoError(t, err)

	_, err = store.Projects.GetByID(ctx, p.ID)
	require.True(t, errors.Is(err, model.ErrProjectNotFound))
}
