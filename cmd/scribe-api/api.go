package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/scribe/pkg/catalog"
	"github.com/dukex/scribe/pkg/cmd"
	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/eventbus"
	"github.com/dukex/scribe/pkg/events"
	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/router"
	"github.com/dukex/scribe/pkg/services"
	"github.com/dukex/scribe/pkg/toolkit"
	"github.com/dukex/scribe/pkg/web"
	"github.com/dukex/scribe/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger    *slog.Logger
	store     kvstore.Store
	publisher eventbus.EventPublisher
	catalog   *catalog.Catalog
	completer completion.Completer
	runner    *workflow.Runner
	settings  *services.Settings
	tracer    trace.Tracer
	validate  *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store kvstore.Store,
	publisher eventbus.EventPublisher,
	cat *catalog.Catalog,
	completer completion.Completer,
	runner *workflow.Runner,
	settings *services.Settings,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:    logger,
		store:     store,
		publisher: publisher,
		catalog:   cat,
		completer: completer,
		runner:    runner,
		settings:  settings,
		tracer:    tracer,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		services.NewChat(a.catalog, router.New(), a.publisher, a.tracer, a.logger),
		toolkit.NewService(a.completer, a.tracer, a.logger),
		services.NewTemplates(a.store),
		services.NewWorkflows(a.store, a.runner),
		a.settings,
		a.store,
		a.validate,
		a.logger,
	)

	if checker, ok := a.completer.(web.HealthChecker); ok {
		handlers.WithCompletionCheck(checker)
	}

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return a.store.HealthCheck(c.Context()) == nil
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Scribe API")
	})

	web.RegisterRoutes(app, handlers)

	return app
}

// Start serves the API until ctx is cancelled.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(cmd.ShutdownTimeout); err != nil {
			a.logger.Error("Failed to shut down API", "error", err)
		}
	}()

	return app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
}

// logEvents subscribes to the bus and logs every chat and workflow notification.
func logEvents(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	logger = logger.With("module", "event_log")

	handler := func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case *events.ChatResponded:
			logger.InfoContext(ctx, "Chat responded", "intent", e.Intent, "reply_length", e.ReplyLength)
		case *events.WorkflowStepCompleted:
			logger.InfoContext(ctx, "Workflow step completed", "run_id", e.RunID, "step", e.StepName, "index", e.Index, "error", e.Error)
		case *events.WorkflowRunFinished:
			logger.InfoContext(ctx, "Workflow run finished", "run_id", e.RunID, "steps", e.Steps, "failures", e.Failures, "duration", e.Duration)
		case *events.WorkflowRunFailed:
			logger.WarnContext(ctx, "Workflow run failed", "run_id", e.RunID, "step_id", e.StepID, "error", e.Error)
		}

		return nil
	}

	for _, eventType := range []events.EventType{
		events.ChatRespondedEvent,
		events.WorkflowStepCompletedEvent,
		events.WorkflowRunFinishedEvent,
		events.WorkflowRunFailedEvent,
	} {
		if err := bus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return bus.Subscribe(ctx)
}
