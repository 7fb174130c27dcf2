// Package scheduler runs saved workflows on their cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukex/scribe/pkg/models"
	"github.com/robfig/cron/v3"
)

// WorkflowSource lists the workflows that carry a schedule.
type WorkflowSource interface {
	Scheduled(ctx context.Context) ([]models.Workflow, error)
}

// WorkflowRunner executes one workflow.
type WorkflowRunner interface {
	RunWorkflow(ctx context.Context, workflow *models.Workflow, input string) (*models.WorkflowResult, error)
}

type job struct {
	entryID  cron.EntryID
	schedule string
}

// Scheduler keeps one cron entry per scheduled workflow. Overlapping runs of the same workflow
// are skipped.
type Scheduler struct {
	source     WorkflowSource
	runner     WorkflowRunner
	runTimeout time.Duration
	logger     *slog.Logger

	cron   *cron.Cron
	jobs   map[string]job
	mutex  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func New(source WorkflowSource, runner WorkflowRunner, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	logger = logger.With("module", "scheduler")

	return &Scheduler{
		source:     source,
		runner:     runner,
		runTimeout: runTimeout,
		logger:     logger,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{logger}),
			cron.Recover(cronLogger{logger}),
		)),
		jobs: make(map[string]job),
	}
}

// Start registers the current scheduled workflows and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if err := s.Reload(s.ctx); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started", "jobs", s.JobCount())

	return nil
}

// Reload brings the cron entries in line with the stored workflows: new or rescheduled
// workflows are (re)registered and deleted ones removed.
func (s *Scheduler) Reload(ctx context.Context) error {
	workflows, err := s.source.Scheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scheduled workflows: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	seen := make(map[string]bool, len(workflows))

	for _, wf := range workflows {
		schedule := strings.TrimSpace(wf.Schedule)
		seen[wf.ID] = true

		if existing, ok := s.jobs[wf.ID]; ok {
			if existing.schedule == schedule {
				continue
			}

			s.cron.Remove(existing.entryID)
			delete(s.jobs, wf.ID)
		}

		entryID, err := s.cron.AddFunc(schedule, s.runFunc(wf.ID, wf.Name))
		if err != nil {
			s.logger.ErrorContext(ctx, "Invalid schedule, skipping workflow", "workflow_id", wf.ID, "schedule", schedule, "error", err)

			continue
		}

		s.jobs[wf.ID] = job{entryID: entryID, schedule: schedule}
		s.logger.InfoContext(ctx, "Scheduled workflow", "workflow_id", wf.ID, "name", wf.Name, "schedule", schedule)
	}

	for id, existing := range s.jobs {
		if !seen[id] {
			s.cron.Remove(existing.entryID)
			delete(s.jobs, id)
			s.logger.InfoContext(ctx, "Unscheduled workflow", "workflow_id", id)
		}
	}

	return nil
}

// Watch reloads the schedule every interval until ctx is done.
func (s *Scheduler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.ErrorContext(ctx, "Failed to reload schedules", "error", err)
			}
		}
	}
}

func (s *Scheduler) JobCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.jobs)
}

// runFunc reloads the workflow at fire time so edits to steps apply without rescheduling.
func (s *Scheduler) runFunc(workflowID, name string) func() {
	return func() {
		logger := s.logger.With("workflow_id", workflowID, "name", name)

		ctx := s.ctx
		if ctx == nil {
			ctx = context.Background()
		}

		if s.runTimeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
			defer cancel()
		}

		workflows, err := s.source.Scheduled(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load workflow for scheduled run", "error", err)

			return
		}

		for i := range workflows {
			if workflows[i].ID != workflowID {
				continue
			}

			logger.InfoContext(ctx, "Running scheduled workflow")

			result, err := s.runner.RunWorkflow(ctx, &workflows[i], "")
			if err != nil {
				logger.ErrorContext(ctx, "Scheduled run failed", "error", err)

				return
			}

			logger.InfoContext(ctx, "Scheduled run finished", "run_id", result.RunID, "outputs", len(result.Outputs))

			return
		}

		logger.WarnContext(ctx, "Scheduled workflow no longer exists")
	}
}

// Stop halts the cron loop and waits for running jobs to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping scheduler")

	if s.cancel != nil {
		s.cancel()
	}

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mutex.Lock()
	s.jobs = make(map[string]job)
	s.mutex.Unlock()

	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
