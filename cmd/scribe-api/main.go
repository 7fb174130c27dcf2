package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/scribe/pkg/cmd"
	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/log"
	"github.com/dukex/scribe/pkg/services"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultPort = 9091
	serviceName = "scribe-api"
)

func main() {
	logger := log.WithModule("api")

	flags := append(cmd.CommonFlags(), &cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "Port to run the API server on",
		Value:   defaultPort,
		Sources: cli.EnvVars("PORT"),
	})

	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Serve the shopping assistant, writing toolkit and prompt workflows over HTTP",
		EnableShellCompletion: true,
		Flags:                 flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))
			logger = log.WithModule("api")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.InfoContext(ctx, "Initializing Scribe API")

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

			cat, err := cmd.LoadCatalog(command.String("catalog"), logger)
			if err != nil {
				return err
			}

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), serviceName, logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := logEvents(ctx, eventBus, logger); err != nil {
				return err
			}

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

			api := NewAPI(logger, store, eventBus, cat, completer, runner, settings, tracer)

			port := int(command.Int("port"))
			logger.InfoContext(ctx, "Starting API server", "port", port)

			err = api.Start(ctx, port)

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cmd.ShutdownTimeout)
			defer cancel()

			return errors.Join(err, shutdownTracer(shutdownCtx))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("API stopped", "error", err)
		os.Exit(1)
	}
}
