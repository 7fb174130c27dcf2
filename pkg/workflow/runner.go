// Package workflow runs multi-step prompt workflows where each step's output feeds the next step.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/eventbus"
	"github.com/dukex/scribe/pkg/events"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/otelhelper"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FailurePolicy decides what happens when a step's completion fails.
type FailurePolicy string

const (
	// FailurePolicyContinue records an empty output for the failed step and keeps going.
	FailurePolicyContinue FailurePolicy = "continue"
	// FailurePolicyAbort stops at the first failed step.
	FailurePolicyAbort FailurePolicy = "abort"
)

const DefaultStepTimeout = 60 * time.Second

var ErrUnknownFailurePolicy = errors.New("unknown failure policy")

func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", FailurePolicyContinue:
		return FailurePolicyContinue, nil
	case FailurePolicyAbort:
		return FailurePolicyAbort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFailurePolicy, value)
	}
}

// StepError reports the step that stopped an aborted run.
type StepError struct {
	Index    int
	StepID   string
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index+1, e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Runner struct {
	completer   completion.Completer
	policy      FailurePolicy
	stepTimeout time.Duration
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

type Option func(*Runner)

func WithFailurePolicy(policy FailurePolicy) Option {
	return func(r *Runner) {
		r.policy = policy
	}
}

func WithStepTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		if timeout > 0 {
			r.stepTimeout = timeout
		}
	}
}

func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(r *Runner) {
		r.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

func NewRunner(completer completion.Completer, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		completer:   completer,
		policy:      FailurePolicyContinue,
		stepTimeout: DefaultStepTimeout,
		publisher:   eventbus.Discard,
		tracer:      otelhelper.NoopTracer(),
		logger:      logger.With("module", "workflow_runner"),
	}

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

// Run executes steps in ascending Order, feeding each output into the next step's {input}.
// A blank initialInput or an empty step list yields an empty result without calling the completer.
func (r *Runner) Run(ctx context.Context, steps []models.PromptStep, initialInput string) ([]string, error) {
	return r.run(ctx, uuid.NewString(), "", steps, initialInput)
}

// RunWorkflow executes a saved workflow. input overrides the workflow's stored input when not blank.
func (r *Runner) RunWorkflow(ctx context.Context, workflow *models.Workflow, input string) (*models.WorkflowResult, error) {
	if strings.TrimSpace(input) == "" {
		input = workflow.Input
	}

	runID := uuid.NewString()
	outputs, err := r.run(ctx, runID, workflow.ID, workflow.Steps, input)

	return &models.WorkflowResult{RunID: runID, Outputs: outputs}, err
}

func (r *Runner) run(ctx context.Context, runID, workflowID string, steps []models.PromptStep, initialInput string) ([]string, error) {
	if strings.TrimSpace(initialInput) == "" || len(steps) == 0 {
		return []string{}, nil
	}

	logger := r.logger.With("run_id", runID, "workflow_id", workflowID, "steps", len(steps))

	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.run",
		attribute.String(otelhelper.RunIDKey, runID),
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
	)
	defer span.End()

	ordered := slices.Clone(steps)
	slices.SortStableFunc(ordered, func(a, b models.PromptStep) int {
		return a.Order - b.Order
	})

	logger.InfoContext(ctx, "Starting workflow run")

	started := time.Now()
	results := make([]string, 0, len(ordered))
	current := initialInput
	failures := 0

	for index, step := range ordered {
		if err := ctx.Err(); err != nil {
			r.fail(ctx, logger, span, runID, workflowID, step.ID, err)

			return results, fmt.Errorf("workflow run cancelled: %w", err)
		}

		output, err := r.runStep(ctx, index, step, current)

		r.publish(ctx, runID, events.WorkflowStepCompleted{
			BaseEvent:    events.NewBaseEvent(events.WorkflowStepCompletedEvent),
			RunID:        runID,
			WorkflowID:   workflowID,
			StepID:       step.ID,
			StepName:     step.Name,
			Index:        index,
			OutputLength: len(output),
			Error:        errorString(err),
		})

		if err != nil {
			if ctx.Err() != nil {
				r.fail(ctx, logger, span, runID, workflowID, step.ID, ctx.Err())

				return results, fmt.Errorf("workflow run cancelled: %w", ctx.Err())
			}

			if r.policy == FailurePolicyAbort {
				stepErr := &StepError{Index: index, StepID: step.ID, StepName: step.Name, Err: err}
				r.fail(ctx, logger, span, runID, workflowID, step.ID, stepErr)

				return results, stepErr
			}

			failures++

			logger.WarnContext(ctx, "Step failed, continuing with empty output",
				"step_id", step.ID, "step_name", step.Name, "error", err)

			output = ""
		}

		results = append(results, output)
		current = output
	}

	duration := time.Since(started)

	logger.InfoContext(ctx, "Workflow run finished", "failures", failures, "duration", duration)

	r.publish(ctx, runID, events.WorkflowRunFinished{
		BaseEvent:  events.NewBaseEvent(events.WorkflowRunFinishedEvent),
		RunID:      runID,
		WorkflowID: workflowID,
		Steps:      len(results),
		Failures:   failures,
		Duration:   duration,
	})

	return results, nil
}

func (r *Runner) runStep(ctx context.Context, index int, step models.PromptStep, input string) (string, error) {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.step",
		attribute.String(otelhelper.StepIDKey, step.ID),
		attribute.String(otelhelper.StepNameKey, step.Name),
		attribute.Int(otelhelper.StepIndexKey, index),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.stepTimeout)
	defer cancel()

	prompt := strings.ReplaceAll(step.Prompt, models.InputPlaceholder, input)

	output, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.ErrorKindKey, completion.ErrorKind(err)))

		return "", err
	}

	return output, nil
}

func (r *Runner) fail(ctx context.Context, logger *slog.Logger, span trace.Span, runID, workflowID, stepID string, err error) {
	logger.ErrorContext(ctx, "Workflow run failed", "step_id", stepID, "error", err)
	otelhelper.SetError(span, err)

	r.publish(ctx, runID, events.WorkflowRunFailed{
		BaseEvent:  events.NewBaseEvent(events.WorkflowRunFailedEvent),
		RunID:      runID,
		WorkflowID: workflowID,
		StepID:     stepID,
		Error:      err.Error(),
	})
}

// publish never fails the run; bus errors are logged only.
func (r *Runner) publish(ctx context.Context, key string, event eventbus.Event) {
	if err := r.publisher.Publish(context.WithoutCancel(ctx), key, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
