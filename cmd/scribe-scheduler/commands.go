package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dukex/scribe/pkg/cmd"
	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/config"
	"github.com/dukex/scribe/pkg/log"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/scheduler"
	"github.com/dukex/scribe/pkg/services"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start the scheduler",
		Flags: append(cmd.CommonFlags(),
			&cli.DurationFlag{
				Name:    "reload-interval",
				Usage:   "How often saved workflows are re-read for schedule changes",
				Value:   defaultReloadInterval,
				Sources: cli.EnvVars("SCHEDULER_RELOAD_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "run-timeout",
				Usage:   "Upper bound for a single scheduled workflow run",
				Value:   defaultRunTimeout,
				Sources: cli.EnvVars("SCHEDULER_RUN_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "schedules",
				Usage:   "YAML file of scheduled workflows saved to the store on start",
				Sources: cli.EnvVars("SCHEDULER_SCHEDULES_FILE"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))
			logger := log.WithModule("scheduler")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			tracer, shutdownTracer, err := cmd.NewTracer(ctx, command, serviceName)
			if err != nil {
				return err
			}

			store, err := cmd.NewStore(ctx, logger, command.String("store-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close store", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), serviceName, logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			settings := services.NewSettings(store)
			completer := completion.NewOpenAI(
				cmd.CompletionConfig(command),
				services.Credentials(command.String("openai-api-key"), settings),
				log.WithModule("completion"),
			)

			runner, err := cmd.NewRunner(command, completer, eventBus, tracer, log.WithModule("workflow"))
			if err != nil {
				return err
			}

			workflows := services.NewWorkflows(store, runner)

			if path := command.String("schedules"); path != "" {
				if err := seedSchedules(ctx, workflows, path); err != nil {
					return err
				}

				logger.InfoContext(ctx, "Loaded schedules file", "path", path)
			}

			sched := scheduler.New(workflows, runner, command.Duration("run-timeout"), logger)

			if err := sched.Start(ctx); err != nil {
				return err
			}

			sched.Watch(ctx, command.Duration("reload-interval"))

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cmd.ShutdownTimeout)
			defer cancel()

			return errors.Join(sched.Stop(shutdownCtx), shutdownTracer(shutdownCtx))
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List scheduled workflows and their next run",
		Flags:   cmd.CommonFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))
			logger := log.WithModule("scheduler")

			store, err := cmd.NewStore(ctx, logger, command.String("store-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close store", "error", err)
				}
			}()

			workflows, err := services.NewWorkflows(store, nil).Scheduled(ctx)
			if err != nil {
				return err
			}

			return printSchedule(command.Root().Writer, workflows, time.Now())
		},
	}
}

// seedSchedules upserts every workflow of the schedules file into the store.
func seedSchedules(ctx context.Context, workflows *services.Workflows, path string) error {
	defined, err := config.LoadSchedules(path)
	if err != nil {
		return err
	}

	for _, wf := range defined {
		if _, err := workflows.Save(ctx, wf); err != nil {
			return fmt.Errorf("failed to save scheduled workflow %s: %w", wf.ID, err)
		}
	}

	return nil
}

func printSchedule(out io.Writer, workflows []models.Workflow, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCHEDULE\tNEXT RUN")

	for _, wf := range workflows {
		next := "invalid schedule"

		if schedule, err := cron.ParseStandard(wf.Schedule); err == nil {
			next = schedule.Next(now).Format(time.RFC3339)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wf.ID, wf.Name, wf.Schedule, next)
	}

	return w.Flush()
}
