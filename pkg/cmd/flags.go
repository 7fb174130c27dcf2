// Package cmd provides common flags and initialization functions for the scribe binaries.
package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/scribe/pkg/catalog"
	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/eventbus"
	"github.com/dukex/scribe/pkg/otelhelper"
	"github.com/dukex/scribe/pkg/workflow"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultStoreURL = "file://./data"

// CommonFlags are shared by every scribe binary.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   "text",
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "store-url",
			Usage:   "Key-value store URL (file://, redis://, postgres://, memory://)",
			Value:   defaultStoreURL,
			Sources: cli.EnvVars("STORE_URL"),
		},
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "JSON catalog file; empty uses the built-in sample data",
			Sources: cli.EnvVars("CATALOG_PATH"),
		},
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "OpenAI API key; when empty the key saved in the store is used",
			Sources: cli.EnvVars("OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "openai-base-url",
			Usage:   "Chat completions API base URL",
			Value:   completion.DefaultBaseURL,
			Sources: cli.EnvVars("OPENAI_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Usage:   "Chat completions model",
			Value:   completion.DefaultModel,
			Sources: cli.EnvVars("OPENAI_MODEL"),
		},
		&cli.FloatFlag{
			Name:    "openai-temperature",
			Usage:   "Sampling temperature",
			Value:   completion.DefaultTemperature,
			Sources: cli.EnvVars("OPENAI_TEMPERATURE"),
		},
		&cli.IntFlag{
			Name:    "openai-max-tokens",
			Usage:   "Maximum tokens per completion",
			Value:   completion.DefaultMaxTokens,
			Sources: cli.EnvVars("OPENAI_MAX_TOKENS"),
		},
		&cli.DurationFlag{
			Name:    "openai-timeout",
			Usage:   "Timeout of a single completion request",
			Value:   completion.DefaultTimeout,
			Sources: cli.EnvVars("OPENAI_TIMEOUT"),
		},
		&cli.IntFlag{
			Name:    "openai-max-retries",
			Usage:   "Retries for rate-limited or failed completion requests",
			Value:   completion.DefaultMaxRetries,
			Sources: cli.EnvVars("OPENAI_MAX_RETRIES"),
		},
		&cli.FloatFlag{
			Name:    "openai-rate",
			Usage:   "Maximum completion requests per second (0 disables limiting)",
			Sources: cli.EnvVars("OPENAI_RATE"),
		},
		&cli.StringFlag{
			Name:    "failure-policy",
			Usage:   "What a workflow does when a step fails (continue, abort)",
			Value:   string(workflow.FailurePolicyContinue),
			Sources: cli.EnvVars("WORKFLOW_FAILURE_POLICY"),
		},
		&cli.DurationFlag{
			Name:    "step-timeout",
			Usage:   "Timeout of a single workflow step",
			Value:   workflow.DefaultStepTimeout,
			Sources: cli.EnvVars("WORKFLOW_STEP_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus provider (gochannel, kafka)",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers for the kafka event bus",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
	}
}

// CompletionConfig builds the completion client configuration from the common flags.
func CompletionConfig(command *cli.Command) completion.Config {
	config := completion.DefaultConfig()
	config.BaseURL = command.String("openai-base-url")
	config.Model = command.String("openai-model")
	config.Temperature = command.Float("openai-temperature")
	config.MaxTokens = command.Int("openai-max-tokens")
	config.Timeout = command.Duration("openai-timeout")
	config.MaxRetries = command.Int("openai-max-retries")
	config.RequestsPerSecond = command.Float("openai-rate")

	return config
}

// NewRunner builds the workflow runner from the common flags.
func NewRunner(
	command *cli.Command,
	completer completion.Completer,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) (*workflow.Runner, error) {
	policy, err := workflow.ParseFailurePolicy(command.String("failure-policy"))
	if err != nil {
		return nil, err
	}

	stepTimeout := command.Duration("step-timeout")
	if attempt := command.Duration("openai-timeout"); attempt >= stepTimeout {
		logger.Warn("OpenAI timeout is not below the step timeout; attempts are shortened to fit the step",
			"openai_timeout", attempt, "step_timeout", stepTimeout)
	}

	return workflow.NewRunner(completer, logger,
		workflow.WithFailurePolicy(policy),
		workflow.WithStepTimeout(stepTimeout),
		workflow.WithPublisher(publisher),
		workflow.WithTracer(tracer),
	), nil
}

// NewTracer returns the OTLP tracer when --otel-enabled is set and a no-op tracer otherwise.
//
// nolint:ireturn
func NewTracer(ctx context.Context, command *cli.Command, serviceName string) (trace.Tracer, otelhelper.ShutdownFunc, error) {
	return otelhelper.Setup(ctx, serviceName, command.Bool("otel-enabled"))
}

// LoadCatalog loads the catalog file, falling back to the built-in sample data, and logs data
// quality warnings.
func LoadCatalog(path string, logger *slog.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}

	for _, warning := range cat.Warnings() {
		logger.Warn("Catalog data warning", "warning", warning)
	}

	return cat, nil
}

// ShutdownTimeout bounds flushing of traces and closing of connections on exit.
const ShutdownTimeout = 5 * time.Second
