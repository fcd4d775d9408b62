// Package task holds the domain types shared by generation, context aggregation
// and persistence: generated drafts, persisted tasks, and task relationships.
package task

import (
	"strings"
	"time"
)

// Priority is the coarse importance of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Rank orders priorities for sorting. Unknown values rank below LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// NormalizePriority upper-cases and trims a raw priority string.
// An empty input stays empty so optional priorities remain optional.
func NormalizePriority(raw string) Priority {
	return Priority(strings.ToUpper(strings.TrimSpace(raw)))
}

// Status is the lifecycle state of a persisted task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// GeneratedTask is a task draft produced by the generator.
// It never carries an identifier; IDs are assigned on persistence.
type GeneratedTask struct {
	Title       string   `json:"title" yaml:"title" validate:"required,nonempty,max=80"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" validate:"omitempty,max=240"`
	Priority    Priority `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// GeneratedTaskList is the structured payload expected from the model.
type GeneratedTaskList struct {
	Tasks []GeneratedTask `json:"tasks" yaml:"tasks" validate:"required,min=3,max=12,dive"`
}

// Normalize trims text fields and canonicalizes priorities in place.
func (l *GeneratedTaskList) Normalize() {
	for i := range l.Tasks {
		l.Tasks[i].Title = strings.TrimSpace(l.Tasks[i].Title)
		l.Tasks[i].Description = strings.TrimSpace(l.Tasks[i].Description)
		l.Tasks[i].Priority = NormalizePriority(string(l.Tasks[i].Priority))
	}
}

// Task is a persisted task as returned by the task store.
type Task struct {
	ID           string     `json:"id" yaml:"id"`
	ProjectID    string     `json:"projectId" yaml:"projectId"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status     `json:"status" yaml:"status"`
	Priority     Priority   `json:"priority" yaml:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	AssigneeID   string     `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	AssigneeName string     `json:"assigneeName,omitempty" yaml:"assigneeName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// TaskContext is the normalized view of a persisted task used for prompting.
type TaskContext struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status     `json:"status" yaml:"status"`
	Priority     Priority   `json:"priority" yaml:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ProjectID    string     `json:"projectId" yaml:"projectId"`
	ProjectName  string     `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	AssigneeID   string     `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	AssigneeName string     `json:"assigneeName,omitempty" yaml:"assigneeName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// Project is the read model of a project.
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// TeamMember is a user with access to a project.
type TeamMember struct {
	UserID string `json:"userId" yaml:"userId"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Role   string `json:"role" yaml:"role"`
}

// HistoryEvent is one entry of a project's activity log.
type HistoryEvent struct {
	ID        string    `json:"id" yaml:"id"`
	ProjectID string    `json:"projectId" yaml:"projectId"`
	TaskID    string    `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	Actor     string    `json:"actor,omitempty" yaml:"actor,omitempty"`
	Action    string    `json:"action" yaml:"action"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
