package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/planwing/internal/metrics"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/task"
)

// CreateProject inserts a project owned by ownerID. The owner is added as a member.
func (s *SQLiteStore) CreateProject(ctx context.Context, name, description, ownerID string) (*task.Project, error) {
	defer metrics.RecordStoreQuery("create_project", time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("project name is required")
	}
	now := s.now()
	p := &task.Project{
		ID:          newID("proj"),
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.OwnerID, formatTime(now), formatTime(now)); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	if ownerID != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_members (project_id, user_id, name, role) VALUES (?, ?, ?, 'owner')
		`, p.ID, ownerID, ownerID); err != nil {
			return nil, fmt.Errorf("insert owner: %w", err)
		}
	}
	if err := s.insertHistory(ctx, tx, p.ID, "", ownerID, "project.created", p.Name); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit project: %w", err)
	}
	return p, nil
}

// AddMember adds or updates a project member.
func (s *SQLiteStore) AddMember(ctx context.Context, projectID string, m task.TeamMember) error {
	defer metrics.RecordStoreQuery("add_member", time.Now())

	if m.UserID == "" {
		return errors.New("member user ID is required")
	}
	if m.Name == "" {
		m.Name = m.UserID
	}
	if m.Role == "" {
		m.Role = "member"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, name, email, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET name = excluded.name, email = excluded.email, role = excluded.role
	`, projectID, m.UserID, m.Name, m.Email, m.Role)
	if err != nil {
		return fmt.Errorf("add member %s: %w", m.UserID, err)
	}
	return nil
}

// GetProject returns the project, or nil when it does not exist or userID is
// neither its owner nor a member. An empty userID skips the access check.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID, userID string) (*task.Project, error) {
	defer metrics.RecordStoreQuery("get_project", time.Now())

	var p task.Project
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects WHERE id = ?
	`, projectID).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	if userID != "" && userID != p.OwnerID {
		ok, err := s.isMember(ctx, projectID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
	return &p, nil
}

// ListProjects returns every project visible to userID, newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context, userID string) ([]task.Project, error) {
	defer metrics.RecordStoreQuery("list_projects", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		WHERE ? = '' OR p.owner_id = ? OR m.user_id = ?
		ORDER BY p.created_at DESC
	`, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Project
	for rows.Next() {
		var p task.Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		out = append(out, p)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) isMember(ctx context.Context, projectID, userID string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM project_members WHERE project_id = ? AND user_id = ?
	`, projectID, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return n > 0, nil
}

// ListMembers returns the members of a project ordered by name.
func (s *SQLiteStore) ListMembers(ctx context.Context, projectID string) ([]task.TeamMember, error) {
	defer metrics.RecordStoreQuery("list_members", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, email, role FROM project_members
		WHERE project_id = ? ORDER BY name, user_id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []task.TeamMember{}
	for rows.Next() {
		var m task.TeamMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}

// RecentHistory returns up to limit events, newest first.
func (s *SQLiteStore) RecentHistory(ctx context.Context, projectID string, limit int) ([]task.HistoryEvent, error) {
	defer metrics.RecordStoreQuery("recent_history", time.Now())

	if limit <= 0 {
		limit = projectctx.DefaultHistoryWindow
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, COALESCE(task_id, ''), actor, action, summary, created_at
		FROM task_history WHERE project_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []task.HistoryEvent{}
	for rows.Next() {
		var e task.HistoryEvent
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.TaskID, &e.Actor, &e.Action, &e.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}
