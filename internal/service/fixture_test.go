package service

import (
	"sync"

	"go.uber.org/zap"

	"project-service/internal/storetest"
)

// recordingPublisher collects published routing keys in order.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// fixture wires the real services over the in-memory store.
type fixture struct {
	store     *storetest.Store
	publisher *recordingPublisher
	projects  *ProjectService
	tasks     *TaskService
	team      *TeamService
	notes     *NoteService
	auth      *AuthService
}

func newFixture() *fixture {
	store := storetest.New()
	logger := zap.NewNop()
	publisher := &recordingPublisher{}

	authz := NewAuthorizer(store.Projects, nil, logger)
	cascade := NewCascadeManager(store.Projects, store.Tasks, store.Notes, logger)

	return &fixture{
		store:     store,
		publisher: publisher,
		projects:  NewProjectService(store.Projects, authz, cascade, publisher, logger),
		tasks:     NewTaskService(store.Projects, store.Tasks, authz, cascade, publisher, logger),
		team:      NewTeamService(store.Projects, store.Users, authz, logger),
		notes:     NewNoteService(store.Projects, store.Tasks, store.Notes, authz, logger),
		auth:      NewAuthService(store.Users, "test-secret"),
	}
}
