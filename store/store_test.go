package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(now time.Time) *Store {
	s := NewStore()
	s.now = func() time.Time { return now }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func TestAddTask(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC))

	task, ok := s.AddTask("Buy milk", "")
	require.True(t, ok)
	assert.Equal(t, ProjectInbox, task.ProjectID)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Empty(t, task.Subtasks)
	assert.Len(t, s.Tasks(), 1)

	t.Run("blank title is a silent no-op", func(t *testing.T) {
		_, ok := s.AddTask("   ", "")
		assert.False(t, ok)
		assert.Len(t, s.Tasks(), 1)
	})
}

func TestCompletionStatusConsistency(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC))
	task, _ := s.AddTask("write report", "")

	check := func() {
		got, ok := s.Task(task.ID)
		require.True(t, ok)
		assert.Equal(t, got.Status == StatusDone, got.IsCompleted,
			"isCompleted must hold exactly when status is done")
	}

	// Any interleaving of toggles and status updates keeps the flag
	// and the status in lockstep.
	s.ToggleTask(task.ID)
	check()
	s.UpdateTaskStatus(task.ID, StatusInProgress)
	check()
	s.UpdateTaskStatus(task.ID, StatusDone)
	check()
	s.ToggleTask(task.ID)
	check()
	s.UpdateTaskStatus(task.ID, StatusTodo)
	check()

	got, _ := s.Task(task.ID)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, StatusTodo, got.Status)
}

func TestUpdateTaskStatusFreeFormColumn(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("design", "")

	// Column ids are free-form; only "done" implies completion.
	s.UpdateTaskStatus(task.ID, "review")
	got, _ := s.Task(task.ID)
	assert.Equal(t, "review", got.Status)
	assert.False(t, got.IsCompleted)

	s.UpdateTaskStatus(task.ID, StatusDone)
	got, _ = s.Task(task.ID)
	assert.True(t, got.IsCompleted)
}

func TestToggleUnknownTaskIsNoOp(t *testing.T) {
	s := newTestStore(time.Now())
	s.AddTask("keep me", "")

	s.ToggleTask("missing")
	s.UpdateTaskStatus("missing", StatusDone)
	s.DeleteTask("missing")

	assert.Len(t, s.Tasks(), 1)
	streak, _ := s.Streak()
	assert.Equal(t, 0, streak)
}

func TestStreak(t *testing.T) {
	day1 := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	s := newTestStore(day1)
	a, _ := s.AddTask("first", "")
	b, _ := s.AddTask("second", "")

	s.ToggleTask(a.ID)
	streak, last := s.Streak()
	assert.Equal(t, 1, streak, "first completion of the day increments")
	assert.Equal(t, "2024-06-10", last)

	s.ToggleTask(b.ID)
	streak, _ = s.Streak()
	assert.Equal(t, 1, streak, "second completion the same day does not")

	s.ToggleTask(a.ID) // back to incomplete
	streak, _ = s.Streak()
	assert.Equal(t, 1, streak, "un-completing never decrements")

	s.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	s.ToggleTask(a.ID)
	streak, last = s.Streak()
	assert.Equal(t, 2, streak)
	assert.Equal(t, "2024-06-11", last)
}

func TestCheckStreakReset(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	task, _ := s.AddTask("daily", "")
	s.ToggleTask(task.ID)

	s.now = func() time.Time { return time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC) }
	s.CheckStreak()
	streak, _ := s.Streak()
	assert.Equal(t, 1, streak, "within 48 hours the streak survives")

	s.now = func() time.Time { return time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC) }
	s.CheckStreak()
	streak, _ = s.Streak()
	assert.Equal(t, 0, streak)
}

func TestQuickCaptureScenario(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	task, ok := s.AddTask("Buy milk", "")
	require.True(t, ok)
	got, _ := s.Task(task.ID)
	assert.Equal(t, ProjectInbox, got.ProjectID)
	assert.Equal(t, StatusTodo, got.Status)
	assert.False(t, got.IsCompleted)

	s.ToggleTask(task.ID)
	got, _ = s.Task(task.ID)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, StatusDone, got.Status)
	streak, _ := s.Streak()
	assert.Equal(t, 1, streak)
}

func TestAssignTaskToDate(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("plan me", "")

	s.AssignTaskToTimeSlot(task.ID, "2024-06-10", "09:30")
	got, _ := s.Task(task.ID)
	assert.Equal(t, "2024-06-10", got.PlannedDate)
	assert.Equal(t, "09:30", got.PlannedTime)

	// Clearing the date always clears the time too.
	s.AssignTaskToDate(task.ID, "")
	got, _ = s.Task(task.ID)
	assert.Empty(t, got.PlannedDate)
	assert.Empty(t, got.PlannedTime)
}

func TestAssignTaskToDateKeepsTime(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("plan me", "")

	s.AssignTaskToTimeSlot(task.ID, "2024-06-10", "09:30")
	s.AssignTaskToDate(task.ID, "2024-06-11")
	got, _ := s.Task(task.ID)
	assert.Equal(t, "2024-06-11", got.PlannedDate)
	assert.Equal(t, "09:30", got.PlannedTime, "moving the date keeps the planned time")
}

func TestAssignTaskToTimeSlot(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("plan me", "")

	t.Run("any time bin clears the time but keeps the date", func(t *testing.T) {
		s.AssignTaskToTimeSlot(task.ID, "2024-06-10", "09:30")
		s.AssignTaskToTimeSlot(task.ID, "2024-06-10", "")
		got, _ := s.Task(task.ID)
		assert.Equal(t, "2024-06-10", got.PlannedDate)
		assert.Empty(t, got.PlannedTime)
	})

	t.Run("a time without a date is unreachable", func(t *testing.T) {
		fresh, _ := s.AddTask("untouched", "")
		s.AssignTaskToTimeSlot(fresh.ID, "", "09:30")
		got, _ := s.Task(fresh.ID)
		assert.Empty(t, got.PlannedDate)
		assert.Empty(t, got.PlannedTime)
	})
}

func TestDeleteProjectCascade(t *testing.T) {
	s := newTestStore(time.Now())
	p, ok := s.AddProject("Side Hustle", "bg-purple-500")
	require.True(t, ok)

	mine, _ := s.AddTask("in project", p.ID)
	other, _ := s.AddTask("in inbox", "")
	work, _ := s.AddTask("in work", "work")

	s.SetCurrentProjectID(p.ID)
	s.DeleteProject(p.ID)

	_, found := s.Task(mine.ID)
	assert.False(t, found, "tasks of the deleted project go with it")
	_, found = s.Task(other.ID)
	assert.True(t, found)
	_, found = s.Task(work.ID)
	assert.True(t, found)

	_, found = s.Project(p.ID)
	assert.False(t, found)

	snap := s.Snapshot()
	assert.Equal(t, ProjectInbox, snap.CurrentProjectID, "view falls back to the inbox")
}

func TestDeleteInboxIsNoOp(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("safe", "")

	s.DeleteProject(ProjectInbox)

	_, found := s.Project(ProjectInbox)
	assert.True(t, found)
	_, found = s.Task(task.ID)
	assert.True(t, found)
}

func TestInboxNotInSnapshot(t *testing.T) {
	s := newTestStore(time.Now())
	snap := s.Snapshot()
	for _, p := range snap.Projects {
		assert.NotEqual(t, ProjectInbox, p.ID, "the inbox sentinel is never persisted")
	}
	// But it is always reported to views, first.
	projects := s.Projects()
	require.NotEmpty(t, projects)
	assert.Equal(t, ProjectInbox, projects[0].ID)
}

func TestAddProjectSeedsDefaultColumns(t *testing.T) {
	s := newTestStore(time.Now())
	p, _ := s.AddProject("Launch", "bg-blue-500")
	require.Len(t, p.Columns, 3)
	assert.Equal(t, StatusTodo, p.Columns[0].ID)
	assert.Equal(t, StatusInProgress, p.Columns[1].ID)
	assert.Equal(t, StatusDone, p.Columns[2].ID)
}

func TestDeleteColumnOrphansTasks(t *testing.T) {
	s := newTestStore(time.Now())
	p, _ := s.AddProject("Board", "bg-blue-500")
	task, _ := s.AddTask("stuck", p.ID)
	s.UpdateTaskStatus(task.ID, StatusTodo)

	s.DeleteColumn(p.ID, StatusTodo)

	got, _ := s.Task(task.ID)
	assert.Equal(t, StatusTodo, got.Status, "deleting a column never touches tasks")

	cols := s.ColumnsFor(p.ID)
	for _, c := range cols {
		assert.NotEqual(t, StatusTodo, c.ID)
	}
}

func TestColumnFallbackIsReadTime(t *testing.T) {
	s := newTestStore(time.Now())
	// Seed projects carry no explicit columns.
	cols := s.ColumnsFor("work")
	require.Len(t, cols, 3)

	p, _ := s.Project("work")
	assert.Empty(t, p.Columns, "the fallback must not be written back")
}

func TestColumnManagement(t *testing.T) {
	s := newTestStore(time.Now())
	p, _ := s.AddProject("Board", "bg-blue-500")

	s.AddColumn(p.ID, "Review")
	cols := s.ColumnsFor(p.ID)
	require.Len(t, cols, 4)
	assert.Equal(t, "Review", cols[3].Title)
	assert.Equal(t, 3, cols[3].Order)

	s.UpdateColumn(p.ID, cols[3].ID, "QA")
	cols = s.ColumnsFor(p.ID)
	assert.Equal(t, "QA", cols[3].Title)

	s.AddColumn(p.ID, "   ")
	assert.Len(t, s.ColumnsFor(p.ID), 4, "blank column titles are ignored")
}

func TestMoveTask(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("migrate", "")
	s.UpdateTaskStatus(task.ID, StatusInProgress)

	s.MoveTask(task.ID, "work")
	got, _ := s.Task(task.ID)
	assert.Equal(t, "work", got.ProjectID)
	assert.Equal(t, StatusInProgress, got.Status, "moving does not touch status")
}

func TestSubtasks(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("parent", "")

	s.AddSubtask(task.ID, "child")
	s.AddSubtask(task.ID, "  ")
	got, _ := s.Task(task.ID)
	require.Len(t, got.Subtasks, 1)
	assert.False(t, got.Subtasks[0].IsCompleted)

	s.ToggleSubtask(task.ID, got.Subtasks[0].ID)
	got, _ = s.Task(task.ID)
	assert.True(t, got.Subtasks[0].IsCompleted)

	s.ToggleSubtask(task.ID, "missing")
	got, _ = s.Task(task.ID)
	assert.Len(t, got.Subtasks, 1)
}

func TestAttachments(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	task, _ := s.AddTask("with files", "")

	att := s.NewAttachment("notes.txt", "text/plain", 5, "aGVsbG8=")
	s.AddAttachment(task.ID, att)
	got, _ := s.Task(task.ID)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "notes.txt", got.Attachments[0].Name)

	s.DeleteAttachment(task.ID, att.ID)
	got, _ = s.Task(task.ID)
	assert.Empty(t, got.Attachments)
}

func TestUpdateSettingsMerge(t *testing.T) {
	s := newTestStore(time.Now())
	dark := true
	goal := 8
	s.UpdateSettings(SettingsPatch{IsDarkMode: &dark, DailyGoal: &goal})

	got := s.Settings()
	assert.True(t, got.IsDarkMode)
	assert.Equal(t, 8, got.DailyGoal)
	assert.Equal(t, 9, got.StartOfDay, "untouched fields keep their values")
	assert.True(t, got.EnableSound)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestStore(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	p, _ := s.AddProject("Launch", "bg-blue-500")
	task, _ := s.AddTask("ship it", p.ID)
	s.AddSubtask(task.ID, "write changelog")
	s.AssignTaskToTimeSlot(task.ID, "2024-06-12", "14:00")
	s.ToggleTask(task.ID)

	snap := s.Snapshot()

	restored := NewStore()
	restored.Restore(snap)
	assert.Equal(t, snap, restored.Snapshot())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newTestStore(time.Now())
	task, _ := s.AddTask("original", "")
	snap := s.Snapshot()

	s.UpdateTaskContent(task.ID, "changed after snapshot")
	assert.Empty(t, snap.Tasks[0].Content, "snapshots never see later mutations")
}

func TestOnChangeFires(t *testing.T) {
	s := newTestStore(time.Now())
	calls := 0
	s.OnChange = func() { calls++ }

	task, _ := s.AddTask("observe", "")
	s.ToggleTask(task.ID)
	s.ToggleTask("missing") // no-ops must not notify
	assert.Equal(t, 2, calls)
}
