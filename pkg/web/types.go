package web

import (
	"fmt"

	"github.com/dukex/scribe/pkg/models"
)

// MessageRequest is the chat widget's request body.
type MessageRequest struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Reply string `json:"reply"`
}

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
}

type RefineRequest struct {
	Text string `json:"text"`
	Kind string `json:"kind" validate:"required,oneof=improve professional casual concise expand"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Kind   string `json:"kind"   validate:"required,oneof=blog email social copy"`
}

// TextResponse carries a toolkit result. An empty result means the completion was skipped or failed.
type TextResponse struct {
	Result string `json:"result"`
}

type CreateTemplateRequest struct {
	Name        string `json:"name"        validate:"required"`
	Category    string `json:"category"`
	Prompt      string `json:"prompt"      validate:"required"`
	Description string `json:"description"`
}

type APIKeyRequest struct {
	APIKey string `json:"api_key"`
}

type APIKeyStatus struct {
	Configured bool `json:"configured"`
}

type StepRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt" validate:"required"`
	Order  int    `json:"order"`
}

type RunStepsRequest struct {
	Steps []StepRequest `json:"steps" validate:"dive"`
	Input string        `json:"input"`
}

type SaveWorkflowRequest struct {
	Name        string        `json:"name"        validate:"required"`
	Description string        `json:"description"`
	Steps       []StepRequest `json:"steps"       validate:"required,min=1,dive"`
	Input       string        `json:"input"`
	Schedule    string        `json:"schedule"`
}

type RunWorkflowRequest struct {
	Input string `json:"input"`
}

// RunResponse holds the outputs collected so far. Error is set when the run stopped early.
type RunResponse struct {
	RunID   string   `json:"run_id,omitempty"`
	Outputs []string `json:"outputs"`
	Error   string   `json:"error,omitempty"`
}

// toPromptSteps names unnamed steps "Step <n>" by position.
func toPromptSteps(steps []StepRequest) []models.PromptStep {
	result := make([]models.PromptStep, 0, len(steps))

	for i, step := range steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("Step %d", i+1)
		}

		result = append(result, models.PromptStep{
			ID:     step.ID,
			Name:   name,
			Prompt: step.Prompt,
			Order:  step.Order,
		})
	}

	return result
}
