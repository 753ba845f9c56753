// Package events defines the notifications emitted when reports are computed or
// stored workflows change.
package events

import (
	"time"

	"github.com/dukex/flowcheck/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every flowcheck event.
const Topic = "flowcheck.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Report events.
	ValidationCompletedEvent EventType = "report.validation.completed"
	AnalysisCompletedEvent   EventType = "report.analysis.completed"

	// Stored workflow events.
	WorkflowSavedEvent   EventType = "workflow.saved"
	WorkflowDeletedEvent EventType = "workflow.deleted"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}

// ValidationCompleted summarizes a category validation run.
type ValidationCompleted struct {
	BaseEvent

	Strictness     string `json:"strictness"`
	Score          int    `json:"score"`
	Passed         bool   `json:"passed"`
	TotalIssues    int    `json:"total_issues"`
	CriticalIssues int    `json:"critical_issues"`
	StructureValid bool   `json:"structure_valid"`
	Cached         bool   `json:"cached"`
}

func (v ValidationCompleted) GetType() EventType {
	return ValidationCompletedEvent
}

// AnalysisCompleted summarizes a composite analysis run.
type AnalysisCompleted struct {
	BaseEvent

	Scores       models.AnalysisScores `json:"scores"`
	Issues       int                   `json:"issues"`
	AntiPatterns []string              `json:"anti_patterns,omitempty"`
	Cached       bool                  `json:"cached"`
}

func (a AnalysisCompleted) GetType() EventType {
	return AnalysisCompletedEvent
}

type WorkflowSaved struct {
	BaseEvent

	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
}

func (w WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}

type WorkflowDeleted struct {
	BaseEvent
}

func (w WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}
