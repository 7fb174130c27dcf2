// Package events defines the notifications published while answering chats and running workflows.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic.
const Topic = "scribe.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ChatRespondedEvent EventType = "chat.responded"

	// Workflow run lifecycle events.
	WorkflowStepCompletedEvent EventType = "workflow.step.completed"
	WorkflowRunFinishedEvent   EventType = "workflow.run.finished"
	WorkflowRunFailedEvent     EventType = "workflow.run.failed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]any),
	}
}

// ChatResponded is emitted after the router answered a customer query.
type ChatResponded struct {
	BaseEvent

	Intent      string `json:"intent"`
	QueryLength int    `json:"query_length"`
	ReplyLength int    `json:"reply_length"`
}

func (e ChatResponded) GetType() EventType {
	return ChatRespondedEvent
}

// WorkflowStepCompleted is emitted once per executed step, including steps whose completion failed.
type WorkflowStepCompleted struct {
	BaseEvent

	RunID        string `json:"run_id"`
	WorkflowID   string `json:"workflow_id,omitempty"`
	StepID       string `json:"step_id"`
	StepName     string `json:"step_name"`
	Index        int    `json:"index"`
	OutputLength int    `json:"output_length"`
	Error        string `json:"error,omitempty"`
}

func (e WorkflowStepCompleted) GetType() EventType {
	return WorkflowStepCompletedEvent
}

type WorkflowRunFinished struct {
	BaseEvent

	RunID      string        `json:"run_id"`
	WorkflowID string        `json:"workflow_id,omitempty"`
	Steps      int           `json:"steps"`
	Failures   int           `json:"failures"`
	Duration   time.Duration `json:"duration"`
}

func (e WorkflowRunFinished) GetType() EventType {
	return WorkflowRunFinishedEvent
}

type WorkflowRunFailed struct {
	BaseEvent

	RunID      string `json:"run_id"`
	WorkflowID string `json:"workflow_id,omitempty"`
	StepID     string `json:"step_id,omitempty"`
	Error      string `json:"error"`
}

func (e WorkflowRunFailed) GetType() EventType {
	return WorkflowRunFailedEvent
}
