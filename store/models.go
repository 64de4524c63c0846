package store

import "time"

// ProjectInbox is the permanent capture bucket ("Brain Dump"). It is
// never persisted as a real project record and can never be deleted;
// it only exists in memory.
const ProjectInbox = "inbox"

// Canonical task statuses. Status is a plain string because kanban
// columns have free-form ids and dropping a task on a column sets its
// status to that column's id; only "done" carries meaning for the
// completion flag.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// Attachment holds the file payload base64-encoded. The 10MB size cap
// is enforced at the ingestion boundary (handlers), not here.
type Attachment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"createdAt"`
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	IsCompleted bool         `json:"isCompleted"`
	ProjectID   string       `json:"projectId"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Content     string       `json:"content,omitempty"`
	PlannedDate string       `json:"plannedDate,omitempty"` // YYYY-MM-DD, empty = unplanned
	PlannedTime string       `json:"plannedTime,omitempty"` // HH:MM, only meaningful with a date
	Duration    int          `json:"duration,omitempty"`    // estimate in minutes
	Subtasks    []Subtask    `json:"subtasks"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

type Project struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	IsArchived bool     `json:"isArchived"`
	Columns    []Column `json:"columns,omitempty"`
}

// DefaultColumns is the read-time fallback for projects without an
// explicit column list. It is never written back into the project.
func DefaultColumns() []Column {
	return []Column{
		{ID: StatusTodo, Title: "TO DO", Order: 0},
		{ID: StatusInProgress, Title: "IN PROGRESS", Order: 1},
		{ID: StatusDone, Title: "DONE", Order: 2},
	}
}

type UserSettings struct {
	IsDarkMode     bool    `json:"isDarkMode"`
	EnableSound    bool    `json:"enableSound"`
	EnableConfetti bool    `json:"enableConfetti"`
	DailyGoal      int     `json:"dailyGoal"`
	StartOfDay     int     `json:"startOfDay"` // hour, 0-23
	EndOfDay       int     `json:"endOfDay"`   // hour, 0-23; < StartOfDay wraps past midnight
	BlockColor     string  `json:"blockColor"`
	BlockOpacity   float64 `json:"blockOpacity"`
}

// SettingsPatch is a partial settings update; nil fields are left
// untouched by UpdateSettings.
type SettingsPatch struct {
	IsDarkMode     *bool    `json:"isDarkMode,omitempty"`
	EnableSound    *bool    `json:"enableSound,omitempty"`
	EnableConfetti *bool    `json:"enableConfetti,omitempty"`
	DailyGoal      *int     `json:"dailyGoal,omitempty"`
	StartOfDay     *int     `json:"startOfDay,omitempty"`
	EndOfDay       *int     `json:"endOfDay,omitempty"`
	BlockColor     *string  `json:"blockColor,omitempty"`
	BlockOpacity   *float64 `json:"blockOpacity,omitempty"`
}

func defaultSettings() UserSettings {
	return UserSettings{
		IsDarkMode:     false,
		EnableSound:    true,
		EnableConfetti: true,
		DailyGoal:      5,
		StartOfDay:     9,
		EndOfDay:       18,
		BlockColor:     "neutral",
		BlockOpacity:   0.1,
	}
}

// Snapshot is the whole persisted store state: everything that goes
// into the local blob and comes back verbatim on load. The inbox
// sentinel project is deliberately absent.
type Snapshot struct {
	Tasks             []Task       `json:"tasks"`
	Projects          []Project    `json:"projects"`
	Settings          UserSettings `json:"settings"`
	Streak            int          `json:"streak"`
	LastCompletedDate string       `json:"lastCompletedDate,omitempty"`
	CurrentView       string       `json:"currentView"`
	CurrentProjectID  string       `json:"currentProjectId"`
	SelectedTaskID    string       `json:"selectedTaskId,omitempty"`
	IsFocusMode       bool         `json:"isFocusMode"`
}

func seedProjects() []Project {
	return []Project{
		{ID: "work", Name: "Work", Color: "bg-blue-500"},
		{ID: "personal", Name: "Personal", Color: "bg-green-500"},
	}
}

func inboxProject() Project {
	return Project{ID: ProjectInbox, Name: "Brain Dump", Color: "bg-gray-500"}
}
