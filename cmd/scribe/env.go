package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dukex/scribe/pkg/cmd"
	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/eventbus"
	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/log"
	"github.com/dukex/scribe/pkg/router"
	"github.com/dukex/scribe/pkg/services"
	"github.com/dukex/scribe/pkg/toolkit"
	"github.com/dukex/scribe/pkg/workflow"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

// env holds the services a CLI subcommand works with.
type env struct {
	logger    *slog.Logger
	out       io.Writer
	store     kvstore.Store
	settings  *services.Settings
	templates *services.Templates
	workflows *services.Workflows
	toolkit   *toolkit.Service
	runner    *workflow.Runner
	tracer    trace.Tracer
	publisher eventbus.EventPublisher

	closers []func(ctx context.Context) error
}

// withEnv builds the services from the global flags, runs fn and releases everything afterwards.
func withEnv(fn func(ctx context.Context, command *cli.Command, e *env) error) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		e, err := newEnv(ctx, command)
		if err != nil {
			return err
		}

		runErr := fn(ctx, command, e)

		return errors.Join(runErr, e.close(ctx))
	}
}

func newEnv(ctx context.Context, command *cli.Command) (*env, error) {
	logger := log.WithModule("cli")
	e := &env{logger: logger, out: command.Root().Writer}

	tracer, shutdownTracer, err := cmd.NewTracer(ctx, command, serviceName)
	if err != nil {
		return nil, err
	}

	e.tracer = tracer
	e.closers = append(e.closers, shutdownTracer)

	store, err := cmd.NewStore(ctx, logger, command.String("store-url"))
	if err != nil {
		return nil, errors.Join(err, e.close(ctx))
	}

	e.store = store
	e.closers = append(e.closers, func(context.Context) error { return store.Close() })

	bus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), serviceName, logger)
	if err != nil {
		return nil, errors.Join(err, e.close(ctx))
	}

	e.publisher = bus
	e.closers = append(e.closers, func(context.Context) error { return bus.Close() })

	e.settings = services.NewSettings(store)
	completer := completion.NewOpenAI(
		cmd.CompletionConfig(command),
		services.Credentials(command.String("openai-api-key"), e.settings),
		log.WithModule("completion"),
	)

	e.runner, err = cmd.NewRunner(command, completer, bus, tracer, log.WithModule("workflow"))
	if err != nil {
		return nil, errors.Join(err, e.close(ctx))
	}

	e.templates = services.NewTemplates(store)
	e.workflows = services.NewWorkflows(store, e.runner)
	e.toolkit = toolkit.NewService(completer, tracer, log.WithModule("toolkit"))

	return e, nil
}

func (e *env) chat(command *cli.Command) (*services.Chat, error) {
	cat, err := cmd.LoadCatalog(command.String("catalog"), e.logger)
	if err != nil {
		return nil, err
	}

	return services.NewChat(cat, router.New(), e.publisher, e.tracer, log.WithModule("chat")), nil
}

// close releases resources in reverse order of acquisition.
func (e *env) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cmd.ShutdownTimeout)
	defer cancel()

	var errs []error

	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i](ctx))
	}

	e.closers = nil

	return errors.Join(errs...)
}
