package store

import (
	"context"
	"log"
)

// RemoteData is the result of a full refetch from the remote backend.
// Columns and settings have no remote representation and stay local.
type RemoteData struct {
	Projects []Project
	Tasks    []Task
}

// Remote is the hosted backend consumed by the store. Implementations
// map the inbox sentinel to a NULL project reference and back; the
// inbox itself is never stored as a row.
type Remote interface {
	FetchAll(ctx context.Context, userID string) (RemoteData, error)
	UpsertProject(ctx context.Context, userID string, p Project) error
	DeleteProject(ctx context.Context, userID, projectID string) error
	UpsertTask(ctx context.Context, userID string, t Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// SetRemote configures the backend used once a session starts.
func (s *Store) SetRemote(r Remote) {
	s.mu.Lock()
	s.remote = r
	s.mu.Unlock()
}

// SessionActive reports whether mutations are being mirrored remotely.
func (s *Store) SessionActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote != nil && s.userID != ""
}

// StartSession binds the store to a user. When the remote side already
// holds data for the user, a full refetch unconditionally overwrites
// local tasks and projects. When it is empty, the local data is
// migrated up instead: seed project ids are not valid remote ids, so
// real projects are re-minted with fresh uuids and task ownership is
// remapped; inbox tasks keep the sentinel, which the remote layer
// stores as NULL.
func (s *Store) StartSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	remote := s.remote
	s.userID = userID
	s.mu.Unlock()
	if remote == nil {
		return nil
	}

	data, err := remote.FetchAll(ctx, userID)
	if err != nil {
		return err
	}

	if len(data.Projects) == 0 && len(data.Tasks) == 0 {
		s.migrateUp(ctx, remote, userID)
		return nil
	}

	s.mu.Lock()
	s.tasks = cloneTasks(data.Tasks)
	s.projects = cloneProjects(data.Projects)
	s.mu.Unlock()
	s.changed()
	return nil
}

// EndSession detaches the remote backend; the store keeps working
// locally.
func (s *Store) EndSession() {
	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()
}

// migrateUp pushes the current local state to an empty remote account.
// Write failures are logged and skipped; the next refetch reconciles.
func (s *Store) migrateUp(ctx context.Context, remote Remote, userID string) {
	s.mu.Lock()
	idMap := make(map[string]string, len(s.projects))
	projects := cloneProjects(s.projects)
	for i := range projects {
		newID := s.newID()
		idMap[projects[i].ID] = newID
		projects[i].ID = newID
	}
	tasks := cloneTasks(s.tasks)
	for i := range tasks {
		if mapped, ok := idMap[tasks[i].ProjectID]; ok {
			tasks[i].ProjectID = mapped
		} else if tasks[i].ProjectID != ProjectInbox {
			// Dangling reference; park the task in the inbox.
			tasks[i].ProjectID = ProjectInbox
		}
	}
	s.projects = projects
	s.tasks = tasks
	s.mu.Unlock()

	for _, p := range projects {
		if err := remote.UpsertProject(ctx, userID, p); err != nil {
			log.Printf("migrate project %s: %v", p.ID, err)
		}
	}
	for _, t := range tasks {
		if err := remote.UpsertTask(ctx, userID, t); err != nil {
			log.Printf("migrate task %s: %v", t.ID, err)
		}
	}
	s.changed()
}

// session returns the remote and user id when a session is active.
func (s *Store) session() (Remote, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.remote == nil || s.userID == "" {
		return nil, "", false
	}
	return s.remote, s.userID, true
}

// syncAsync runs a remote write without blocking the caller. One retry,
// then the failure is logged and handed to the observability hook.
// There is no rollback: local state stays ahead of the remote until
// the next full refetch.
func (s *Store) syncAsync(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx := context.Background()
		err := fn(ctx)
		if err != nil {
			err = fn(ctx)
		}
		if err == nil {
			return
		}
		log.Printf("remote sync %s failed: %v", op, err)
		if h := s.OnSyncError; h != nil {
			h(op, err)
		}
	}()
}

func (s *Store) syncUpsertTask(t Task) {
	remote, userID, ok := s.session()
	if !ok {
		return
	}
	s.syncAsync("task.upsert", func(ctx context.Context) error {
		return remote.UpsertTask(ctx, userID, t)
	})
}

func (s *Store) syncDeleteTask(id string) {
	remote, userID, ok := s.session()
	if !ok {
		return
	}
	s.syncAsync("task.delete", func(ctx context.Context) error {
		return remote.DeleteTask(ctx, userID, id)
	})
}

func (s *Store) syncUpsertProject(p Project) {
	remote, userID, ok := s.session()
	if !ok {
		return
	}
	s.syncAsync("project.upsert", func(ctx context.Context) error {
		return remote.UpsertProject(ctx, userID, p)
	})
}

func (s *Store) syncDeleteProject(id string) {
	remote, userID, ok := s.session()
	if !ok {
		return
	}
	s.syncAsync("project.delete", func(ctx context.Context) error {
		return remote.DeleteProject(ctx, userID, id)
	})
}
