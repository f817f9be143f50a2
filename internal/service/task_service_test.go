package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"project-service/internal/model"
	"project-service/pkg/mq"
)

func TestTaskLifecycleWithStatusHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1 := f.store.SeedUser("mia", "mia@example.com")
	u2 := f.store.SeedUser("tom", "tom@example.com")

	p, err := f.projects.Create(ctx, u1, "site", "acme", "launch the site")
	require.NoError(t, err)

	task, err := f.tasks.Create(ctx, u1, p.ID, "build", "build the landing page")
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusPending, task.Status)
	require.Empty(t, task.CompletedBy)

	task, err = f.tasks.SetStatus(ctx, u1, p.ID, task.ID, "inProgress")
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusInProgress, task.Status)
	require.Len(t, task.CompletedBy, 1)
	require.Equal(t, u1, task.CompletedBy[0].UserID)

	require.NoError(t, f.team.Add(ctx, u1, p.ID, u2))

	task, err = f.tasks.SetStatus(ctx, u2, p.ID, task.ID, "completed")
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusCompleted, task.Status)
	require.Len(t, task.CompletedBy, 2)
	require.Equal(t, u2, task.CompletedBy[1].UserID)
	require.Equal(t, model.TaskStatusCompleted, task.CompletedBy[1].Status)

	// The history survives a fresh read.
	got, err := f.tasks.Get(ctx, u1, p.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, got.CompletedBy, 2)

	require.Contains(t, f.publisher.published(), mq.RoutingKeyTaskStatusChanged)
}

func TestSetStatus_UnknownStatusLeavesTaskUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1 := f.store.SeedUser("mia", "mia@example.com")

	p, err := f.projects.Create(ctx, u1, "site", "acme", "launch the site")
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, u1, p.ID, "build", "build it")
	require.NoError(t, err)

	_, err = f.tasks.SetStatus(ctx, u1, p.ID, task.ID, "done")
	require.True(t, errors.Is(err, model.ErrValidation))

	got, err := f.tasks.Get(ctx, u1, p.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusPending, got.Status)
	require.Empty(t, got.CompletedBy)
}

func TestSetStatus_MemberAllowedManagerOpsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1 := f.store.SeedUser("mia", "mia@example.com")
	u2 := f.store.SeedUser("tom", "tom@example.com")

	p, err := f.projects.Create(ctx, u1, "site", "acme", "launch the site")
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, u1, p.ID, "build", "build it")
	require.NoError(t, err)
	require.NoError(t, f.team.Add(ctx, u1, p.ID, u2))

	// Members may move the status but not edit or delete the task.
	_, err = f.tasks.SetStatus(ctx, u2, p.ID, task.ID, "onHold")
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, u2, p.ID, task.ID, "renamed", "changed")
	require.True(t, errors.Is(err, model.ErrUnauthorized))

	err = f.tasks.Delete(ctx, u2, p.ID, task.ID)
	require.True(t, errors.Is(err, model.ErrUnauthorized))

	_, err = f.tasks.Create(ctx, u2, p.ID, "extra", "not allowed")
	require.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestTaskCrossProjectIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1 := f.store.SeedUser("mia", "mia@example.com")
	u2 := f.store.SeedUser("tom", "tom@example.com")

	projectA, err := f.projects.Create(ctx, u1, "alpha", "acme", "first")
	require.NoError(t, err)
	projectB, err := f.projects.Create(ctx, u2, "beta", "acme", "second")
	require.NoError(t, err)

	task, err := f.tasks.Create(ctx, u1, projectA.ID, "build", "build it")
	require.NoError(t, err)

	// Even the manager of B cannot see A's task through B.
	_, err = f.tasks.Get(ctx, u2, projectB.ID, task.ID)
	require.True(t, errors.Is(err, model.ErrTaskNotFound))

	_, err = f.tasks.SetStatus(ctx, u2, projectB.ID, task.ID, "completed")
	require.True(t, errors.Is(err, model.ErrTaskNotFound))

	err = f.tasks.Delete(ctx, u2, projectB.ID, task.ID)
	require.True(t, errors.Is(err, model.ErrTaskNotFound))
}

func TestTaskDelete_CascadesNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1 := f.store.SeedUser("mia", "mia@example.com")

	p, err := f.projects.Create(ctx, u1, "site", "acme", "launch")
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, u1, p.ID, "build", "build it")
	require.NoError(t, err)

	n1, err := f.notes.Create(ctx, u1, p.ID, task.ID, "first note")
	require.NoError(t, err)
	n2, err := f.notes.Create(ctx, u1, p.ID, task.ID, "second note")
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, u1, p.ID, task.ID))

	_, err = f.tasks.Get(ctx, u1, p.ID, task.ID)
	require.True(t, errors.Is(err, model.ErrTaskNotFound))
	for _, id := range []int{n1.ID, n2.ID} {
		_, err = f.store.Notes.GetByID(ctx, id)
		require.True(t, errors.Is(err, model.ErrNoteNotFound))
	}

	// The project is still there and no longer lists the task.
	tasks, err := f.tasks.ListByProject(ctx, u1, p.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}
