package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/josephgoksu/planwing/internal/metrics"
	"github.com/josephgoksu/planwing/internal/task"
)

// Link validation failures. Their messages are part of the contract with
// callers that classify rejections by text.
var (
	ErrSelfReference  = errors.New("self reference")
	ErrTaskNotFound   = errors.New("task not found")
	ErrCrossProject   = errors.New("cross-project link")
	ErrDuplicateLink  = errors.New("duplicate link")
	ErrCircular       = errors.New("circular dependency")
	ErrSplitHierarchy = errors.New("invalid split hierarchy")
	ErrInvalidType    = errors.New("invalid relationship type")
)

// CreateLink validates and stores one relationship. Checks run in order:
// type, self reference, existence, project, duplicate, cycle, split parent.
func (s *SQLiteStore) CreateLink(ctx context.Context, rel task.ResolvedRelationship, userID string) error {
	defer metrics.RecordStoreQuery("create_link", time.Now())

	if !rel.Type.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidType, rel.Type)
	}
	if rel.SourceTaskID == rel.TargetTaskID {
		return fmt.Errorf("%w: %s", ErrSelfReference, rel.SourceTaskID)
	}

	source, err := s.GetTask(ctx, rel.SourceTaskID)
	if err != nil {
		return err
	}
	target, err := s.GetTask(ctx, rel.TargetTaskID)
	if err != nil {
		return err
	}
	if source.ProjectID != target.ProjectID || (rel.ProjectID != "" && rel.ProjectID != source.ProjectID) {
		return fmt.Errorf("%w: %s -> %s", ErrCrossProject, source.ProjectID, target.ProjectID)
	}
	projectID := source.ProjectID

	existing, err := s.ListLinks(ctx, projectID)
	if err != nil {
		return err
	}
	for _, l := range existing {
		same := l.SourceTaskID == rel.SourceTaskID && l.TargetTaskID == rel.TargetTaskID && l.Type == rel.Type
		mirrored := l.SourceTaskID == rel.TargetTaskID && l.TargetTaskID == rel.SourceTaskID && l.Type == rel.Type.Inverse()
		if same || mirrored {
			return fmt.Errorf("%w: %s %s %s", ErrDuplicateLink, rel.SourceTaskID, rel.Type, rel.TargetTaskID)
		}
	}

	candidate := rel
	candidate.ProjectID = projectID
	if err := task.VerifyDAG(task.BlockingGraph(append(existing, candidate))); err != nil {
		return fmt.Errorf("%w: %v", ErrCircular, err)
	}

	if child, ok := splitChild(candidate); ok {
		for _, l := range existing {
			if c, ok := splitChild(l); ok && c == child {
				return fmt.Errorf("%w: %s already has a parent", ErrSplitHierarchy, child)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO task_links (project_id, source_task_id, target_task_id, type, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, projectID, rel.SourceTaskID, rel.TargetTaskID, rel.Type, userID, formatTime(s.now())); err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	summary := fmt.Sprintf("%s %s %s", rel.SourceTaskID, rel.Type, rel.TargetTaskID)
	if err := s.insertHistory(ctx, tx, projectID, rel.SourceTaskID, userID, "link.created", summary); err != nil {
		return err
	}
	return tx.Commit()
}

// splitChild returns the child task of a split link.
func splitChild(rel task.ResolvedRelationship) (string, bool) {
	switch rel.Type {
	case task.RelSplitsTo:
		return rel.TargetTaskID, true
	case task.RelSplitsFrom:
		return rel.SourceTaskID, true
	default:
		return "", false
	}
}

// ListLinks returns every link of a project in creation order.
func (s *SQLiteStore) ListLinks(ctx context.Context, projectID string) ([]task.ResolvedRelationship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_task_id, target_task_id, type, project_id
		FROM task_links WHERE project_id = ? ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.ResolvedRelationship
	for rows.Next() {
		var l task.ResolvedRelationship
		if err := rows.Scan(&l.SourceTaskID, &l.TargetTaskID, &l.Type, &l.ProjectID); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return out, nil
}
