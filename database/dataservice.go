package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/focusflow/focusflow/store"
)

// DataService is the hosted-backend side of the sync contract. Each
// call mirrors exactly one local change; UpsertTask replaces the
// task's subtask and attachment rows wholesale so the remote row set
// always matches the local task.
type DataService struct {
	db *sql.DB
}

func NewDataService(db *sql.DB) *DataService {
	return &DataService{db: db}
}

var _ store.Remote = (*DataService)(nil)

// FetchAll loads everything the backend holds for a user. Tasks with a
// NULL project_id come back owned by the inbox sentinel.
func (s *DataService) FetchAll(ctx context.Context, userID string) (store.RemoteData, error) {
	var data store.RemoteData

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color FROM projects WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return data, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p store.Project
		var color sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &color); err != nil {
			return data, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Color = color.String
		data.Projects = append(data.Projects, p)
	}
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("failed to read projects: %w", err)
	}

	tasks, err := s.fetchTasks(ctx, userID)
	if err != nil {
		return data, err
	}
	data.Tasks = tasks
	return data, nil
}

func (s *DataService) fetchTasks(ctx context.Context, userID string) ([]store.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, description, content, is_completed, status,
		        priority, created_at, planned_date, planned_time, duration
		 FROM tasks WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []store.Task
	index := map[string]int{}
	for rows.Next() {
		var t store.Task
		var projectID, description, content, plannedDate, plannedTime sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&t.ID, &projectID, &t.Title, &description, &content,
			&t.IsCompleted, &t.Status, &t.Priority, &t.CreatedAt,
			&plannedDate, &plannedTime, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.ProjectID = store.ProjectInbox
		if projectID.Valid {
			t.ProjectID = projectID.String
		}
		t.Description = description.String
		t.Content = content.String
		t.PlannedDate = plannedDate.String
		t.PlannedTime = plannedTime.String
		t.Duration = int(duration.Int64)
		t.Subtasks = []store.Subtask{}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	subRows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.task_id, s.title, s.is_completed
		 FROM subtasks s JOIN tasks t ON t.id = s.task_id
		 WHERE t.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtasks: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var sub store.Subtask
		var taskID string
		if err := subRows.Scan(&sub.ID, &taskID, &sub.Title, &sub.IsCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtasks: %w", err)
	}

	attRows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, name, size, type, data FROM attachments WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var att store.Attachment
		var taskID string
		var mimeType, payload sql.NullString
		if err := attRows.Scan(&att.ID, &taskID, &att.Name, &att.Size, &mimeType, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		att.Type = mimeType.String
		att.Data = payload.String
		if i, ok := index[taskID]; ok {
			tasks[i].Attachments = append(tasks[i].Attachments, att)
		}
	}
	if err := attRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attachments: %w", err)
	}

	return tasks, nil
}

// UpsertProject inserts or updates one project row. The inbox sentinel
// is not a real project and is refused.
func (s *DataService) UpsertProject(ctx context.Context, userID string, p store.Project) error {
	if p.ID == store.ProjectInbox {
		return fmt.Errorf("refusing to store the inbox sentinel as a project row")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUser(ctx, tx, userID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, color)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		p.ID, userID, p.Name, p.Color)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteProject removes a project row and cascades over its tasks,
// mirroring the local cascade.
func (s *DataService) DeleteProject(ctx context.Context, userID, projectID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM subtasks WHERE task_id IN
			(SELECT id FROM tasks WHERE user_id = ? AND project_id = ?)`, userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project subtasks: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM attachments WHERE task_id IN
			(SELECT id FROM tasks WHERE user_id = ? AND project_id = ?)`, userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project attachments: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND project_id = ?`, userID, projectID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM projects WHERE user_id = ? AND id = ?`, userID, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpsertTask writes one task row plus its subtask and attachment rows.
func (s *DataService) UpsertTask(ctx context.Context, userID string, t store.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUser(ctx, tx, userID); err != nil {
		return err
	}

	var projectID any
	if t.ProjectID != store.ProjectInbox && t.ProjectID != "" {
		projectID = t.ProjectID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, project_id, title, description, content,
			is_completed, status, priority, created_at, planned_date, planned_time, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			description = excluded.description,
			content = excluded.content,
			is_completed = excluded.is_completed,
			status = excluded.status,
			priority = excluded.priority,
			planned_date = excluded.planned_date,
			planned_time = excluded.planned_time,
			duration = excluded.duration`,
		t.ID, userID, projectID, t.Title, t.Description, t.Content,
		t.IsCompleted, t.Status, t.Priority, t.CreatedAt,
		nullable(t.PlannedDate), nullable(t.PlannedTime), nullableInt(t.Duration))
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear subtasks: %w", err)
	}
	for _, sub := range t.Subtasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subtasks (id, task_id, title, is_completed) VALUES (?, ?, ?, ?)`,
			sub.ID, t.ID, sub.Title, sub.IsCompleted); err != nil {
			return fmt.Errorf("failed to insert subtask: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear attachments: %w", err)
	}
	for _, att := range t.Attachments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attachments (id, task_id, user_id, name, size, type, data, storage_path)
			VALUES (?, ?, ?, ?, ?, ?, ?, '')`,
			att.ID, t.ID, userID, att.Name, att.Size, att.Type, att.Data); err != nil {
			return fmt.Errorf("failed to insert attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTask removes one task row and its owned rows.
func (s *DataService) DeleteTask(ctx context.Context, userID, taskID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to delete subtasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to delete attachments: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
