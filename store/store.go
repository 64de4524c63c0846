package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const dayFormat = "2006-01-02"

// Store owns all application state: tasks, projects, settings, streak
// counters and view state. Mutations apply synchronously to memory
// (optimistic), then notify observers and fire a best-effort remote
// write when a session is active. Collections are copied on write so
// snapshots handed out to readers are never mutated underneath them.
type Store struct {
	mu sync.RWMutex

	tasks    []Task
	projects []Project // real projects only; the inbox sentinel lives outside
	settings UserSettings

	streak            int
	lastCompletedDate string

	currentView      string
	currentProjectID string
	selectedTaskID   string
	isFocusMode      bool

	remote Remote
	userID string

	// OnChange is invoked after every applied mutation, outside the
	// store lock. Wiring uses it to save the local snapshot and
	// broadcast to connected sessions.
	OnChange func()

	// OnSyncError receives remote write failures that would otherwise
	// only be logged. Local state is never rolled back.
	OnSyncError func(op string, err error)

	now   func() time.Time
	newID func() string
}

func NewStore() *Store {
	return &Store{
		tasks:            []Task{},
		projects:         seedProjects(),
		settings:         defaultSettings(),
		currentView:      ProjectInbox,
		currentProjectID: ProjectInbox,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

func (s *Store) changed() {
	if f := s.OnChange; f != nil {
		f()
	}
}

// --- Read side ---

// Tasks returns a copy of all tasks.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Projects returns the inbox sentinel followed by all real projects.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects)+1)
	out = append(out, inboxProject())
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

// Project looks a project up by id. The inbox sentinel is always found.
func (s *Store) Project(id string) (Project, bool) {
	if id == ProjectInbox {
		return inboxProject(), true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return cloneProject(p), true
		}
	}
	return Project{}, false
}

// Task looks a task up by id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return cloneTask(t), true
		}
	}
	return Task{}, false
}

// ColumnsFor returns the project's columns, falling back to the three
// defaults when the project has none. The fallback is never persisted.
func (s *Store) ColumnsFor(projectID string) []Column {
	p, ok := s.Project(projectID)
	if !ok || len(p.Columns) == 0 {
		return DefaultColumns()
	}
	return p.Columns
}

func (s *Store) Settings() UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) Streak() (count int, lastCompleted string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streak, s.lastCompletedDate
}

// ActiveTask is the task the focus timer and widget run against: the
// first incomplete task, if any.
func (s *Store) ActiveTask() (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if !t.IsCompleted {
			return cloneTask(t), true
		}
	}
	return Task{}, false
}

// Snapshot captures the whole persisted state. The inbox project is
// not part of it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Tasks:             cloneTasks(s.tasks),
		Projects:          cloneProjects(s.projects),
		Settings:          s.settings,
		Streak:            s.streak,
		LastCompletedDate: s.lastCompletedDate,
		CurrentView:       s.currentView,
		CurrentProjectID:  s.currentProjectID,
		SelectedTaskID:    s.selectedTaskID,
		IsFocusMode:       s.isFocusMode,
	}
}

// Restore replaces the store state with a previously captured
// snapshot, as on application load.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	s.tasks = cloneTasks(snap.Tasks)
	s.projects = cloneProjects(snap.Projects)
	s.settings = snap.Settings
	s.streak = snap.Streak
	s.lastCompletedDate = snap.LastCompletedDate
	s.currentView = snap.CurrentView
	s.currentProjectID = snap.CurrentProjectID
	s.selectedTaskID = snap.SelectedTaskID
	s.isFocusMode = snap.IsFocusMode
	if s.currentView == "" {
		s.currentView = ProjectInbox
	}
	if s.currentProjectID == "" {
		s.currentProjectID = ProjectInbox
	}
	s.mu.Unlock()
	s.changed()
}

// --- Task mutations ---

// AddTask captures a new task into the given project (the inbox when
// projectID is empty). A title that is blank after trimming is a
// silent no-op.
func (s *Store) AddTask(title, projectID string) (Task, bool) {
	if strings.TrimSpace(title) == "" {
		return Task{}, false
	}
	if projectID == "" {
		projectID = ProjectInbox
	}
	s.mu.Lock()
	t := Task{
		ID:        s.newID(),
		Title:     title,
		ProjectID: projectID,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		Subtasks:  []Subtask{},
		CreatedAt: s.now(),
	}
	s.tasks = append(cloneTasks(s.tasks), t)
	s.mu.Unlock()

	s.syncUpsertTask(t)
	s.changed()
	return t, true
}

// ToggleTask flips completion and status together and applies the
// streak rule: the first completion of a calendar day increments the
// streak exactly once.
func (s *Store) ToggleTask(id string) {
	s.mu.Lock()
	var updated Task
	ok := false
	tasks := cloneTasks(s.tasks)
	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		t.IsCompleted = !t.IsCompleted
		if t.IsCompleted {
			t.Status = StatusDone
			today := s.now().Format(dayFormat)
			if s.lastCompletedDate != today {
				s.streak++
				s.lastCompletedDate = today
			}
		} else {
			t.Status = StatusTodo
		}
		tasks[i] = t
		updated, ok = t, true
		break
	}
	if ok {
		s.tasks = tasks
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.syncUpsertTask(updated)
	s.changed()
}

// UpdateTaskStatus sets the status (typically a board-column drop) and
// derives the completion flag so checkbox and board stay consistent.
func (s *Store) UpdateTaskStatus(id, status string) {
	s.updateTask(id, func(t *Task) {
		t.Status = status
		t.IsCompleted = status == StatusDone
	})
}

// MoveTask reassigns the owning project without touching status or
// planning fields.
func (s *Store) MoveTask(id, projectID string) {
	s.updateTask(id, func(t *Task) {
		t.ProjectID = projectID
	})
}

// UpdateTaskContent replaces the rich-text notes.
func (s *Store) UpdateTaskContent(id, content string) {
	s.updateTask(id, func(t *Task) {
		t.Content = content
	})
}

// AssignTaskToDate plans a task on a calendar date without a time.
// Clearing the date (empty string) also clears any planned time.
func (s *Store) AssignTaskToDate(id, date string) {
	s.updateTask(id, func(t *Task) {
		t.PlannedDate = date
		if date == "" {
			t.PlannedTime = ""
		}
	})
}

// AssignTaskToTimeSlot plans a task on a date and time slot together.
// An empty time drops the task into the day's "any time" bin. Setting
// a time requires a date, so an empty date is a no-op.
func (s *Store) AssignTaskToTimeSlot(id, date, timeStr string) {
	if date == "" {
		return
	}
	s.updateTask(id, func(t *Task) {
		t.PlannedDate = date
		t.PlannedTime = timeStr
	})
}

// DeleteTask removes a task. Unknown ids are a no-op.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	found := false
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID == id {
			found = true
			continue
		}
		tasks = append(tasks, cloneTask(t))
	}
	if found {
		s.tasks = tasks
	}
	s.mu.Unlock()
	if !found {
		return
	}
	s.syncDeleteTask(id)
	s.changed()
}

// AddSubtask appends a subtask to the parent task. Blank titles are
// ignored.
func (s *Store) AddSubtask(taskID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	sub := Subtask{ID: s.newID(), Title: title}
	s.updateTask(taskID, func(t *Task) {
		t.Subtasks = append(t.Subtasks, sub)
	})
}

// ToggleSubtask flips a subtask's completion through the parent task.
func (s *Store) ToggleSubtask(taskID, subtaskID string) {
	s.updateTask(taskID, func(t *Task) {
		for i, sub := range t.Subtasks {
			if sub.ID == subtaskID {
				t.Subtasks[i].IsCompleted = !sub.IsCompleted
				return
			}
		}
	})
}

// AddAttachment appends an already-validated attachment. Size limits
// are the ingestion boundary's responsibility.
func (s *Store) AddAttachment(taskID string, att Attachment) {
	s.updateTask(taskID, func(t *Task) {
		t.Attachments = append(t.Attachments, att)
	})
}

// DeleteAttachment removes an attachment from a task.
func (s *Store) DeleteAttachment(taskID, attachmentID string) {
	s.updateTask(taskID, func(t *Task) {
		kept := make([]Attachment, 0, len(t.Attachments))
		for _, a := range t.Attachments {
			if a.ID != attachmentID {
				kept = append(kept, a)
			}
		}
		t.Attachments = kept
	})
}

// NewAttachment builds an attachment record for an ingested file.
func (s *Store) NewAttachment(name, mimeType string, size int64, data string) Attachment {
	return Attachment{
		ID:        s.newID(),
		Name:      name,
		Type:      mimeType,
		Size:      size,
		Data:      data,
		CreatedAt: s.now().UnixMilli(),
	}
}

// updateTask applies fn to the task with the given id, copy-on-write.
// A missing id is a silent no-op; any hit triggers notification and a
// remote upsert.
func (s *Store) updateTask(id string, fn func(*Task)) {
	s.mu.Lock()
	var updated Task
	ok := false
	tasks := cloneTasks(s.tasks)
	for i := range tasks {
		if tasks[i].ID == id {
			fn(&tasks[i])
			updated, ok = tasks[i], true
			break
		}
	}
	if ok {
		s.tasks = tasks
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.syncUpsertTask(updated)
	s.changed()
}

// --- Project and column mutations ---

// AddProject creates a project with the three standard board columns.
// Blank names are ignored.
func (s *Store) AddProject(name, color string) (Project, bool) {
	if strings.TrimSpace(name) == "" {
		return Project{}, false
	}
	s.mu.Lock()
	p := Project{
		ID:      s.newID(),
		Name:    name,
		Color:   color,
		Columns: DefaultColumns(),
	}
	s.projects = append(cloneProjects(s.projects), p)
	s.mu.Unlock()

	s.syncUpsertProject(p)
	s.changed()
	return p, true
}

// DeleteProject removes a project and cascades over its tasks. The
// inbox sentinel can never be deleted. When the deleted project is the
// one currently viewed, the view falls back to the inbox.
func (s *Store) DeleteProject(id string) {
	if id == ProjectInbox {
		return
	}
	s.mu.Lock()
	found := false
	projects := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID == id {
			found = true
			continue
		}
		projects = append(projects, cloneProject(p))
	}
	if found {
		s.projects = projects
		tasks := make([]Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			if t.ProjectID != id {
				tasks = append(tasks, cloneTask(t))
			}
		}
		s.tasks = tasks
		if s.currentProjectID == id {
			s.currentProjectID = ProjectInbox
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}
	s.syncDeleteProject(id)
	s.changed()
}

// AddColumn appends a column to a project's board. Column ids are
// free-form uuids, not tied to the three default ids.
func (s *Store) AddColumn(projectID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	id := s.newID()
	s.updateProject(projectID, func(p *Project) {
		p.Columns = append(p.Columns, Column{ID: id, Title: title, Order: len(p.Columns)})
	})
}

// UpdateColumn renames a column.
func (s *Store) UpdateColumn(projectID, columnID, title string) {
	s.updateProject(projectID, func(p *Project) {
		for i, c := range p.Columns {
			if c.ID == columnID {
				p.Columns[i].Title = title
				return
			}
		}
	})
}

// DeleteColumn removes a column from a project's board. Tasks whose
// status pointed at it are left untouched; the board view has to put
// them in a fallback bucket until they are moved.
func (s *Store) DeleteColumn(projectID, columnID string) {
	s.updateProject(projectID, func(p *Project) {
		kept := make([]Column, 0, len(p.Columns))
		for _, c := range p.Columns {
			if c.ID != columnID {
				kept = append(kept, c)
			}
		}
		p.Columns = kept
	})
}

// updateProject applies fn to a real project, copy-on-write. The
// inbox sentinel has no mutable fields, so it is never matched here.
// Columns live only locally; project mutations other than create and
// delete are not mirrored remotely.
func (s *Store) updateProject(id string, fn func(*Project)) {
	s.mu.Lock()
	ok := false
	projects := cloneProjects(s.projects)
	for i := range projects {
		if projects[i].ID == id {
			fn(&projects[i])
			ok = true
			break
		}
	}
	if ok {
		s.projects = projects
	}
	s.mu.Unlock()
	if ok {
		s.changed()
	}
}

// --- Settings, streak and view state ---

// UpdateSettings shallow-merges the patch into the settings singleton.
func (s *Store) UpdateSettings(patch SettingsPatch) {
	s.mu.Lock()
	if patch.IsDarkMode != nil {
		s.settings.IsDarkMode = *patch.IsDarkMode
	}
	if patch.EnableSound != nil {
		s.settings.EnableSound = *patch.EnableSound
	}
	if patch.EnableConfetti != nil {
		s.settings.EnableConfetti = *patch.EnableConfetti
	}
	if patch.DailyGoal != nil {
		s.settings.DailyGoal = *patch.DailyGoal
	}
	if patch.StartOfDay != nil {
		s.settings.StartOfDay = *patch.StartOfDay
	}
	if patch.EndOfDay != nil {
		s.settings.EndOfDay = *patch.EndOfDay
	}
	if patch.BlockColor != nil {
		s.settings.BlockColor = *patch.BlockColor
	}
	if patch.BlockOpacity != nil {
		s.settings.BlockOpacity = *patch.BlockOpacity
	}
	s.mu.Unlock()
	s.changed()
}

// CheckStreak resets the streak when more than 48 hours have passed
// since the last completion. Called once on application start.
func (s *Store) CheckStreak() {
	s.mu.Lock()
	reset := false
	if s.lastCompletedDate != "" {
		last, err := time.Parse(dayFormat, s.lastCompletedDate)
		if err == nil && s.now().Sub(last) > 48*time.Hour {
			s.streak = 0
			reset = true
		}
	}
	s.mu.Unlock()
	if reset {
		s.changed()
	}
}

func (s *Store) SelectTask(id string) {
	s.mu.Lock()
	s.selectedTaskID = id
	s.mu.Unlock()
	s.changed()
}

func (s *Store) SetCurrentView(view string) {
	s.mu.Lock()
	s.currentView = view
	s.mu.Unlock()
	s.changed()
}

func (s *Store) SetCurrentProjectID(id string) {
	s.mu.Lock()
	s.currentProjectID = id
	s.mu.Unlock()
	s.changed()
}

// NavigateToProject switches to the project view for the given id.
func (s *Store) NavigateToProject(id string) {
	s.mu.Lock()
	s.currentView = "project"
	s.currentProjectID = id
	s.mu.Unlock()
	s.changed()
}

func (s *Store) SetFocusMode(on bool) {
	s.mu.Lock()
	s.isFocusMode = on
	s.mu.Unlock()
	s.changed()
}

// --- copy helpers ---

func cloneTask(t Task) Task {
	out := t
	out.Subtasks = append([]Subtask(nil), t.Subtasks...)
	if out.Subtasks == nil {
		out.Subtasks = []Subtask{}
	}
	if t.Attachments != nil {
		out.Attachments = append([]Attachment(nil), t.Attachments...)
	}
	return out
}

func cloneTasks(ts []Task) []Task {
	out := make([]Task, len(ts))
	for i, t := range ts {
		out[i] = cloneTask(t)
	}
	return out
}

func cloneProject(p Project) Project {
	out := p
	if p.Columns != nil {
		out.Columns = append([]Column(nil), p.Columns...)
	}
	return out
}

func cloneProjects(ps []Project) []Project {
	out := make([]Project, len(ps))
	for i, p := range ps {
		out[i] = cloneProject(p)
	}
	return out
}
