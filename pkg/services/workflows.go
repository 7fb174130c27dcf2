package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Workflows manages saved workflows stored under kvstore.KeyWorkflows and runs them.
type Workflows struct {
	store     kvstore.Store
	runner    *workflow.Runner
	validator *validator.Validate
	mu        sync.Mutex
}

func NewWorkflows(store kvstore.Store, runner *workflow.Runner) *Workflows {
	return &Workflows{
		store:     store,
		runner:    runner,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (w *Workflows) List(ctx context.Context) ([]models.Workflow, error) {
	return loadList[models.Workflow](ctx, w.store, kvstore.KeyWorkflows)
}

// Scheduled returns the saved workflows that carry a cron schedule.
func (w *Workflows) Scheduled(ctx context.Context) ([]models.Workflow, error) {
	all, err := w.List(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(all, func(wf models.Workflow) bool {
		return strings.TrimSpace(wf.Schedule) == ""
	}), nil
}

func (w *Workflows) Get(ctx context.Context, id string) (*models.Workflow, error) {
	workflows, err := w.List(ctx)
	if err != nil {
		return nil, err
	}

	index := slices.IndexFunc(workflows, func(wf models.Workflow) bool { return wf.ID == id })
	if index < 0 {
		return nil, &ServiceError{Op: "get_workflow", Message: "workflow " + id + " not found", Err: ErrWorkflowNotFound}
	}

	return &workflows[index], nil
}

// Save creates the workflow when its ID is empty or unknown and replaces it otherwise.
func (w *Workflows) Save(ctx context.Context, wf models.Workflow) (*models.Workflow, error) {
	if err := w.validate(&wf); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	workflows, err := w.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wf.UpdatedAt = now

	for i := range wf.Steps {
		if wf.Steps[i].ID == "" {
			wf.Steps[i].ID = uuid.NewString()
		}
	}

	index := -1
	if wf.ID != "" {
		index = slices.IndexFunc(workflows, func(existing models.Workflow) bool { return existing.ID == wf.ID })
	}

	if index >= 0 {
		wf.CreatedAt = workflows[index].CreatedAt
		workflows[index] = wf
	} else {
		if wf.ID == "" {
			wf.ID = uuid.NewString()
		}

		wf.CreatedAt = now
		workflows = append(workflows, wf)
	}

	if err := saveList(ctx, w.store, kvstore.KeyWorkflows, workflows); err != nil {
		return nil, err
	}

	return &wf, nil
}

func (w *Workflows) Delete(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	workflows, err := w.List(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(slices.Clone(workflows), func(wf models.Workflow) bool { return wf.ID == id })
	if len(remaining) == len(workflows) {
		return &ServiceError{Op: "delete_workflow", Message: "workflow " + id + " not found", Err: ErrWorkflowNotFound}
	}

	return saveList(ctx, w.store, kvstore.KeyWorkflows, remaining)
}

// Run executes the saved workflow id. A blank input falls back to the workflow's stored input.
func (w *Workflows) Run(ctx context.Context, id, input string) (*models.WorkflowResult, error) {
	wf, err := w.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return w.runner.RunWorkflow(ctx, wf, input)
}

// RunSteps executes an ad-hoc list of steps.
func (w *Workflows) RunSteps(ctx context.Context, steps []models.PromptStep, input string) ([]string, error) {
	return w.runner.Run(ctx, steps, input)
}

func (w *Workflows) validate(wf *models.Workflow) error {
	if strings.TrimSpace(wf.Name) == "" {
		return NewValidationError("save_workflow", "workflow name is required", ErrNameRequired)
	}

	if len(wf.Steps) == 0 {
		return NewValidationError("save_workflow", "workflow must have at least one step", ErrStepsRequired)
	}

	if err := w.validator.Struct(wf); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError("save_workflow", validationErrors.Error(), ErrInvalidRequest)
		}

		return NewValidationError("save_workflow", err.Error(), ErrInvalidRequest)
	}

	if strings.TrimSpace(wf.Schedule) != "" {
		if _, err := cron.ParseStandard(wf.Schedule); err != nil {
			return NewValidationError("save_workflow", fmt.Sprintf("invalid schedule %q: %v", wf.Schedule, err), ErrInvalidCron)
		}
	}

	return nil
}
