package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/scribe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	workflows []models.Workflow
	err       error
}

func (f *fakeSource) Scheduled(context.Context) ([]models.Workflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]models.Workflow(nil), f.workflows...), f.err
}

func (f *fakeSource) set(workflows ...models.Workflow) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.workflows = workflows
}

type countingRunner struct {
	runs atomic.Int32
	ids  chan string
}

func (c *countingRunner) RunWorkflow(_ context.Context, wf *models.Workflow, _ string) (*models.WorkflowResult, error) {
	c.runs.Add(1)

	select {
	case c.ids <- wf.ID:
	default:
	}

	return &models.WorkflowResult{RunID: "run", Outputs: []string{"ok"}}, nil
}

func scheduled(id, schedule string) models.Workflow {
	return models.Workflow{
		ID:       id,
		Name:     "wf " + id,
		Schedule: schedule,
		Input:    "x",
		Steps:    []models.PromptStep{{Name: "a", Prompt: "{input}"}},
	}
}

func TestScheduler_RunsScheduledWorkflow(t *testing.T) {
	source := &fakeSource{workflows: []models.Workflow{scheduled("wf-1", "@every 1s")}}
	runner := &countingRunner{ids: make(chan string, 4)}

	s := New(source, runner, time.Minute, slog.Default())
	require.NoError(t, s.Start(context.Background()))

	defer func() { _ = s.Stop(context.Background()) }()

	assert.Equal(t, 1, s.JobCount())

	select {
	case id := <-runner.ids:
		assert.Equal(t, "wf-1", id)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled workflow did not run")
	}
}

func TestScheduler_ReloadAddsReplacesAndRemoves(t *testing.T) {
	source := &fakeSource{workflows: []models.Workflow{
		scheduled("a", "0 9 * * *"),
		scheduled("b", "0 10 * * *"),
	}}

	s := New(source, &countingRunner{ids: make(chan string, 1)}, time.Minute, slog.Default())
	ctx := context.Background()

	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, 2, s.JobCount())

	firstEntry := s.jobs["a"].entryID

	source.set(scheduled("a", "30 9 * * *"), scheduled("c", "0 11 * * *"))
	require.NoError(t, s.Reload(ctx))

	assert.Equal(t, 2, s.JobCount())
	assert.Contains(t, s.jobs, "a")
	assert.Contains(t, s.jobs, "c")
	assert.NotContains(t, s.jobs, "b")
	assert.NotEqual(t, firstEntry, s.jobs["a"].entryID)
	assert.Len(t, s.cron.Entries(), 2)
}

func TestScheduler_SkipsInvalidSchedules(t *testing.T) {
	source := &fakeSource{workflows: []models.Workflow{
		scheduled("bad", "whenever"),
		scheduled("good", "0 9 * * *"),
	}}

	s := New(source, &countingRunner{ids: make(chan string, 1)}, time.Minute, slog.Default())

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 1, s.JobCount())
	assert.Contains(t, s.jobs, "good")
}

func TestScheduler_SourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("store offline")}
	s := New(source, &countingRunner{ids: make(chan string, 1)}, time.Minute, slog.Default())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store offline")
}

func TestScheduler_RunFuncSkipsDeletedWorkflow(t *testing.T) {
	source := &fakeSource{}
	runner := &countingRunner{ids: make(chan string, 1)}

	s := New(source, runner, time.Minute, slog.Default())
	s.runFunc("gone", "gone")()

	assert.Equal(t, int32(0), runner.runs.Load())
}
