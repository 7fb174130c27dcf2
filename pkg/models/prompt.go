package models

import "time"

// InputPlaceholder is replaced by the previous step's output when a workflow runs.
const InputPlaceholder = "{input}"

// PromptStep is one unit of a multi-step prompt workflow.
type PromptStep struct {
	ID     string `json:"id"     yaml:"id"`
	Name   string `json:"name"   yaml:"name"   validate:"required"`
	Prompt string `json:"prompt" yaml:"prompt" validate:"required"`
	Order  int    `json:"order"  yaml:"order"`
}

// PromptTemplate is a reusable prompt saved by the user.
type PromptTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"        validate:"required"`
	Category    string    `json:"category"`
	Prompt      string    `json:"prompt"      validate:"required"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
