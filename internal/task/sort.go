package task

import "sort"

// SortTaskContexts orders tasks by priority (HIGH first), then most recently
// updated, then title. The sort is stable so equal keys keep input order.
func SortTaskContexts(tasks []TaskContext) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.Title < b.Title
	})
}

// NewTaskContext normalizes a persisted task for prompting.
func NewTaskContext(t Task, projectName string) TaskContext {
	return TaskContext{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     NormalizePriority(string(t.Priority)),
		DueDate:      t.DueDate,
		ProjectID:    t.ProjectID,
		ProjectName:  projectName,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
