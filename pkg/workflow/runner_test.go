package workflow

import (
	"context"
	"errors"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/events"
	"github.com/dukex/scribe/pkg/mocks"
	"github.com/dukex/scribe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func echo() completion.Completer {
	return completion.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		return prompt, nil
	})
}

func step(id, prompt string, order int) models.PromptStep {
	return models.PromptStep{ID: id, Name: "Step " + id, Prompt: prompt, Order: order}
}

func TestRunner_Run_EmptyInputs(t *testing.T) {
	var calls atomic.Int32

	counting := completion.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)

		return prompt, nil
	})

	runner := NewRunner(counting, slog.Default())

	results, err := runner.Run(context.Background(), nil, "x")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)

	results, err = runner.Run(context.Background(), []models.PromptStep{step("a", "{input}", 0)}, "")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = runner.Run(context.Background(), []models.PromptStep{step("a", "{input}", 0)}, "   \n\t")
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.Equal(t, int32(0), calls.Load())
}

func TestRunner_Run_ChainsOutputs(t *testing.T) {
	runner := NewRunner(echo(), slog.Default())

	results, err := runner.Run(context.Background(), []models.PromptStep{
		step("a", "A: {input}", 0),
		step("b", "B: {input}", 1),
	}, "hi")

	require.NoError(t, err)
	assert.Equal(t, []string{"A: hi", "B: A: hi"}, results)
}

func TestRunner_Run_SortsStablyByOrder(t *testing.T) {
	runner := NewRunner(echo(), slog.Default())

	steps := []models.PromptStep{
		step("late", "late({input})", 5),
		step("first", "first({input})", 1),
		step("second", "second({input})", 1),
	}

	results, err := runner.Run(context.Background(), steps, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"first(x)",
		"second(first(x))",
		"late(second(first(x)))",
	}, results)

	assert.Equal(t, "late", steps[0].ID, "caller's slice must not be reordered")
}

func TestRunner_Run_ReplacesEveryPlaceholder(t *testing.T) {
	runner := NewRunner(echo(), slog.Default())

	results, err := runner.Run(context.Background(), []models.PromptStep{
		step("a", "{input} and {input}", 0),
		step("b", "no placeholder", 1),
	}, "hi")

	require.NoError(t, err)
	assert.Equal(t, []string{"hi and hi", "no placeholder"}, results)
}

func TestRunner_Run_ContinuePolicyRecordsEmptyOutput(t *testing.T) {
	completer := &mocks.MockCompleter{}
	completer.On("Complete", mock.Anything, "one: start").Return("first", nil)
	completer.On("Complete", mock.Anything, "two: first").Return("", errors.New("upstream down"))
	completer.On("Complete", mock.Anything, "three: ").Return("third", nil)

	runner := NewRunner(completer, slog.Default())

	results, err := runner.Run(context.Background(), []models.PromptStep{
		step("1", "one: {input}", 0),
		step("2", "two: {input}", 1),
		step("3", "three: {input}", 2),
	}, "start")

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "", "third"}, results)
	completer.AssertExpectations(t)
}

func TestRunner_Run_AbortPolicyReturnsPartialResults(t *testing.T) {
	cause := errors.New("rate limited")

	completer := &mocks.MockCompleter{}
	completer.On("Complete", mock.Anything, "one: start").Return("first", nil)
	completer.On("Complete", mock.Anything, "two: first").Return("", cause)

	runner := NewRunner(completer, slog.Default(), WithFailurePolicy(FailurePolicyAbort))

	results, err := runner.Run(context.Background(), []models.PromptStep{
		step("1", "one: {input}", 0),
		step("2", "two: {input}", 1),
		step("3", "three: {input}", 2),
	}, "start")

	assert.Equal(t, []string{"first"}, results)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "2", stepErr.StepID)
	assert.Equal(t, "Step 2", stepErr.StepName)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "step 2 (Step 2) failed")

	completer.AssertNotCalled(t, "Complete", mock.Anything, "three: ")
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	completer := completion.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)
		cancel()

		return prompt, nil
	})

	runner := NewRunner(completer, slog.Default())

	results, err := runner.Run(ctx, []models.PromptStep{
		step("1", "one {input}", 0),
		step("2", "two {input}", 1),
	}, "x")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"one x"}, results)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunner_Run_StepTimeout(t *testing.T) {
	slow := completion.CompleterFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()

		return "", ctx.Err()
	})

	runner := NewRunner(slow, slog.Default(), WithStepTimeout(20*time.Millisecond))

	started := time.Now()
	results, err := runner.Run(context.Background(), []models.PromptStep{
		step("1", "{input}", 0),
		step("2", "{input}", 1),
	}, "x")

	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, results)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestRunner_Run_PublishesEvents(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	runner := NewRunner(echo(), slog.Default(), WithPublisher(bus))

	_, err := runner.Run(context.Background(), []models.PromptStep{
		step("a", "A: {input}", 0),
		step("b", "B: {input}", 1),
	}, "hi")
	require.NoError(t, err)

	completed := bus.EventsOfType(events.WorkflowStepCompletedEvent)
	require.Len(t, completed, 2)

	first := completed[0].(events.WorkflowStepCompleted)
	assert.Equal(t, "a", first.StepID)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, len("A: hi"), first.OutputLength)

	finished := bus.EventsOfType(events.WorkflowRunFinishedEvent)
	require.Len(t, finished, 1)
	assert.Equal(t, 2, finished[0].(events.WorkflowRunFinished).Steps)
	assert.Equal(t, first.RunID, finished[0].(events.WorkflowRunFinished).RunID)

	assert.Empty(t, bus.EventsOfType(events.WorkflowRunFailedEvent))
}

func TestRunner_Run_PublishFailureDoesNotFailRun(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker offline"))

	runner := NewRunner(echo(), slog.Default(), WithPublisher(bus))

	results, err := runner.Run(context.Background(), []models.PromptStep{step("a", "{input}", 0)}, "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, results)
}

func TestRunner_RunWorkflow(t *testing.T) {
	runner := NewRunner(echo(), slog.Default())

	workflow := &models.Workflow{
		ID:    "wf-1",
		Name:  "Blog pipeline",
		Input: "stored",
		Steps: []models.PromptStep{step("a", "outline {input}", 0)},
	}

	result, err := runner.RunWorkflow(context.Background(), workflow, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"outline stored"}, result.Outputs)

	result, err = runner.RunWorkflow(context.Background(), workflow, "given")
	require.NoError(t, err)
	assert.Equal(t, []string{"outline given"}, result.Outputs)
}

func TestParseFailurePolicy(t *testing.T) {
	policy, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, FailurePolicyContinue, policy)

	policy, err = ParseFailurePolicy(" Abort ")
	require.NoError(t, err)
	assert.Equal(t, FailurePolicyAbort, policy)

	_, err = ParseFailurePolicy("retry")
	assert.ErrorIs(t, err, ErrUnknownFailurePolicy)
}

func TestRunner_Run_RetriesHungAttemptWithinStepTimeout(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			<-r.Context().Done()

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer server.Close()

	config := completion.DefaultConfig()
	config.BaseURL = server.URL
	config.Timeout = time.Second
	config.MaxRetries = 1
	config.InitialBackoff = 10 * time.Millisecond

	client := completion.NewOpenAI(config, completion.StaticKey("sk-test"), slog.Default())
	runner := NewRunner(client, slog.Default(),
		WithFailurePolicy(FailurePolicyAbort),
		WithStepTimeout(time.Second),
	)

	results, err := runner.Run(context.Background(), []models.PromptStep{step("a", "{input}", 0)}, "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, results)
	assert.Equal(t, int32(2), calls.Load())
}
