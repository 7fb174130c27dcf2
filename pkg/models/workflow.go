package models

import "time"

// Workflow is a saved, named sequence of prompt steps.
type Workflow struct {
	ID          string       `json:"id"                 yaml:"id"`
	Name        string       `json:"name"               yaml:"name"     validate:"required,min=1"`
	Description string       `json:"description"        yaml:"description"`
	Steps       []PromptStep `json:"steps"              yaml:"steps"    validate:"required,min=1,dive"`
	Input       string       `json:"input,omitempty"    yaml:"input"`
	Schedule    string       `json:"schedule,omitempty" yaml:"schedule"`
	CreatedAt   time.Time    `json:"created_at"         yaml:"-"`
	UpdatedAt   time.Time    `json:"updated_at"         yaml:"-"`
}

// WorkflowResult holds one output per executed step, in execution order.
type WorkflowResult struct {
	RunID   string   `json:"run_id"`
	Outputs []string `json:"outputs"`
}
