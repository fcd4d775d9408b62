package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/josephgoksu/planwing/internal/metrics"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/task"
)

// CreateMany persists drafts in one transaction. Returned tasks keep the
// submission order and each creation is recorded in the project history.
func (s *SQLiteStore) CreateMany(ctx context.Context, projectID, userID string, drafts []task.GeneratedTask) ([]task.Task, error) {
	defer metrics.RecordStoreQuery("create_tasks", time.Now())

	project, err := s.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("create tasks in %s: %w", projectID, projectctx.ErrProjectNotFound)
	}

	var position int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM tasks WHERE project_id = ?
	`, projectID).Scan(&position); err != nil {
		return nil, fmt.Errorf("query task position: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	out := make([]task.Task, 0, len(drafts))
	for _, d := range drafts {
		position++
		priority := task.NormalizePriority(string(d.Priority))
		if !priority.IsValid() {
			priority = task.PriorityMedium
		}
		t := task.Task{
			ID:          newID("task"),
			ProjectID:   projectID,
			Title:       d.Title,
			Description: d.Description,
			Status:      task.StatusTodo,
			Priority:    priority,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, project_id, title, description, status, priority, due_date, assignee_id, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
			nullTimeString(t.DueDate), t.AssigneeID, position, formatTime(now), formatTime(now)); err != nil {
			return nil, fmt.Errorf("insert task %s: %w", t.Title, err)
		}
		if err := s.insertHistory(ctx, tx, projectID, t.ID, userID, "task.created", t.Title); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tasks: %w", err)
	}
	return out, nil
}

// ListTasks returns the tasks of a project in creation order. Projects the
// user cannot see yield projectctx.ErrProjectNotFound.
func (s *SQLiteStore) ListTasks(ctx context.Context, projectID, userID string) ([]task.Task, error) {
	project, err := s.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("list tasks in %s: %w", projectID, projectctx.ErrProjectNotFound)
	}

	defer metrics.RecordStoreQuery("list_tasks", time.Now())
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.project_id, t.title, t.description, t.status, t.priority, t.due_date,
		       t.assignee_id, COALESCE(m.name, ''), t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN project_members m ON m.project_id = t.project_id AND m.user_id = t.assignee_id
		WHERE t.project_id = ?
		ORDER BY t.position, t.created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []task.Task{}
	for rows.Next() {
		var t task.Task
		var due sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &due,
			&t.AssigneeID, &t.AssigneeName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if due.Valid {
			d := parseTime(due.String)
			t.DueDate = &d
		}
		t.CreatedAt = parseTime(createdAt)
		t.UpdatedAt = parseTime(updatedAt)
		out = append(out, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// GetTask returns one task or an error wrapping ErrTaskNotFound.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, status, priority, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}
