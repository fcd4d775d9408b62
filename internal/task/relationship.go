package task

import (
	"fmt"
	"strconv"
	"strings"
)

// RelationshipType is the kind of link between two tasks.
type RelationshipType string

const (
	RelBlocks         RelationshipType = "BLOCKS"
	RelIsBlockedBy    RelationshipType = "IS_BLOCKED_BY"
	RelDuplicates     RelationshipType = "DUPLICATES"
	RelIsDuplicatedBy RelationshipType = "IS_DUPLICATED_BY"
	RelSplitsTo       RelationshipType = "SPLITS_TO"
	RelSplitsFrom     RelationshipType = "SPLITS_FROM"
	RelRelatesTo      RelationshipType = "RELATES_TO"
)

// RelationshipTypes returns every allowed relationship type in prompt order.
func RelationshipTypes() []RelationshipType {
	return []RelationshipType{
		RelBlocks, RelIsBlockedBy, RelDuplicates, RelIsDuplicatedBy,
		RelSplitsTo, RelSplitsFrom, RelRelatesTo,
	}
}

// IsValid reports whether t is an allowed relationship type.
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelBlocks, RelIsBlockedBy, RelDuplicates, RelIsDuplicatedBy,
		RelSplitsTo, RelSplitsFrom, RelRelatesTo:
		return true
	}
	return false
}

// Inverse returns the type seen from the other end of the link.
func (t RelationshipType) Inverse() RelationshipType {
	switch t {
	case RelBlocks:
		return RelIsBlockedBy
	case RelIsBlockedBy:
		return RelBlocks
	case RelDuplicates:
		return RelIsDuplicatedBy
	case RelIsDuplicatedBy:
		return RelDuplicates
	case RelSplitsTo:
		return RelSplitsFrom
	case RelSplitsFrom:
		return RelSplitsTo
	default:
		return t
	}
}

// ReasonCode classifies why a relationship could not be created.
type ReasonCode string

const (
	ReasonInvalid      ReasonCode = "INVALID"
	ReasonCircular     ReasonCode = "CIRCULAR"
	ReasonCrossProject ReasonCode = "CROSS_PROJECT"
	ReasonDuplicate    ReasonCode = "DUPLICATE"
	ReasonUnknown      ReasonCode = "UNKNOWN"
)

// TaskRelationshipPreview references tasks by placeholder (task_N), never by ID.
type TaskRelationshipPreview struct {
	SourceTask string           `json:"sourceTask" yaml:"sourceTask" validate:"required"`
	TargetTask string           `json:"targetTask" yaml:"targetTask" validate:"required"`
	Type       RelationshipType `json:"type" yaml:"type" validate:"required"`
}

// ResolvedRelationship is a preview whose placeholders were mapped to real IDs.
type ResolvedRelationship struct {
	SourceTaskID string           `json:"sourceTaskId" yaml:"sourceTaskId"`
	TargetTaskID string           `json:"targetTaskId" yaml:"targetTaskId"`
	Type         RelationshipType `json:"type" yaml:"type"`
	ProjectID    string           `json:"projectId" yaml:"projectId"`
}

// RejectedRelationship records a link that the link service refused.
type RejectedRelationship struct {
	SourceTaskID  string           `json:"sourceTaskId" yaml:"sourceTaskId"`
	TargetTaskID  string           `json:"targetTaskId" yaml:"targetTaskId"`
	Type          RelationshipType `json:"type" yaml:"type"`
	ReasonCode    ReasonCode       `json:"reasonCode" yaml:"reasonCode"`
	ReasonMessage string           `json:"reasonMessage" yaml:"reasonMessage"`
}

const placeholderPrefix = "task_"

// Placeholder returns the 1-based positional reference for index i.
func Placeholder(i int) string {
	return fmt.Sprintf("%s%d", placeholderPrefix, i)
}

// ParsePlaceholder extracts N from "task_N". ok is false for anything else,
// including N < 1.
func ParsePlaceholder(ref string) (int, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(ref), placeholderPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
