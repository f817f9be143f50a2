// Package storetest provides an in-memory implementation of the
// service store contracts for tests. It mirrors the error behavior of
// the pgx repositories: misses map to the domain not-found errors and
// filtered deletes of zero rows succeed.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"project-service/internal/model"
)

type Store struct {
	mu       sync.Mutex
	seq      int
	users    map[int]model.User
	projects map[int]model.Project
	team     map[int]map[int]bool
	tasks    map[int]model.Task
	history  map[int][]model.StatusEntry
	notes    map[int]model.Note

	Users    *Users
	Projects *Projects
	Tasks    *Tasks
	Notes    *Notes
}

func New() *Store {
	s := &Store{
		users:    make(map[int]model.User),
		projects: make(map[int]model.Project),
		team:     make(map[int]map[int]bool),
		tasks:    make(map[int]model.Task),
		history:  make(map[int][]model.StatusEntry),
		notes:    make(map[int]model.Note),
	}
	s.Users = &Users{s}
	s.Projects = &Projects{s}
	s.Tasks = &Tasks{s}
	s.Notes = &Notes{s}
	return s
}

func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

// SeedUser inserts a user directly, returning its id.
func (s *Store) SeedUser(name, email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.users[id] = model.User{ID: id, Name: name, Email: email, CreatedAt: time.Now()}
	return id
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.nextID()
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *Users) FindByID(_ context.Context, id int) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := u
	return &out, nil
}

type Projects struct{ s *Store }

func (r *Projects) Insert(_ context.Context, p *model.Project) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.projects[p.ID] = *p
	return p.ID, nil
}

func (r *Projects) GetByID(_ context.Context, id int) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	out := p
	return &out, nil
}

func (r *Projects) ListForUser(_ context.Context, userID int) ([]model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Project
	for _, p := range r.s.projects {
		if p.ManagerID == userID || r.s.team[p.ID][userID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Projects) Update(_ context.Context, p *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[p.ID]; !ok {
		return model.ErrProjectNotFound
	}
	p.UpdatedAt = time.Now()
	r.s.projects[p.ID] = *p
	return nil
}

func (r *Projects) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return model.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	delete(r.s.team, id)
	return nil
}

func (r *Projects) ListTeamIDs(_ context.Context, projectID int) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int
	for id := range r.s.team[projectID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *Projects) ListTeamMembers(_ context.Context, projectID int) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var members []model.User
	for id := range r.s.team[projectID] {
		if u, ok := r.s.users[id]; ok {
			members = append(members, u)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *Projects) AddTeamMember(_ context.Context, projectID, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.team[projectID] == nil {
		r.s.team[projectID] = make(map[int]bool)
	}
	r.s.team[projectID][userID] = true
	return nil
}

func (r *Projects) RemoveTeamMember(_ context.Context, projectID, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.team[projectID][userID] {
		return model.ErrUserNotFound
	}
	delete(r.s.team[projectID], userID)
	return nil
}

type Tasks struct{ s *Store }

func (r *Tasks) Insert(_ context.Context, t *model.Task) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.s.tasks[t.ID] = *t
	return t.ID, nil
}

func (r *Tasks) GetByID(_ context.Context, id int) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	out := t
	out.CompletedBy = append([]model.StatusEntry(nil), r.s.history[id]...)
	return &out, nil
}

func (r *Tasks) ListByProject(_ context.Context, projectID int) ([]model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Task
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Tasks) Update(_ context.Context, t *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[t.ID]
	if !ok {
		return model.ErrTaskNotFound
	}
	stored.Name = t.Name
	stored.Description = t.Description
	stored.UpdatedAt = time.Now()
	r.s.tasks[t.ID] = stored
	return nil
}

func (r *Tasks) UpdateStatus(_ context.Context, id int, status model.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return model.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	r.s.tasks[id] = t
	return nil
}

func (r *Tasks) AppendStatusEntry(_ context.Context, taskID int, entry *model.StatusEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ChangedAt = time.Now()
	r.s.history[taskID] = append(r.s.history[taskID], *entry)
	return nil
}

func (r *Tasks) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(r.s.history, id)
	delete(r.s.tasks, id)
	return nil
}

type Notes struct{ s *Store }

func (r *Notes) Insert(_ context.Context, n *model.Note) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextID()
	n.CreatedAt = time.Now()
	r.s.notes[n.ID] = *n
	return n.ID, nil
}

func (r *Notes) GetByID(_ context.Context, id int) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	out := n
	return &out, nil
}

func (r *Notes) ListByTask(_ context.Context, taskID int) ([]model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Note
	for _, n := range r.s.notes {
		if n.TaskID == taskID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Notes) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[id]; !ok {
		return model.ErrNoteNotFound
	}
	delete(r.s.notes, id)
	return nil
}

func (r *Notes) DeleteByTask(_ context.Context, taskID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	removed := 0
	for id, n := range r.s.notes {
		if n.TaskID == taskID {
			delete(r.s.notes, id)
			removed++
		}
	}
	return removed, nil
}
