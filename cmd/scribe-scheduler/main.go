package main

import (
	"context"
	"os"
	"time"

	"github.com/dukex/scribe/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const (
	serviceName           = "scribe-scheduler"
	defaultReloadInterval = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Run saved workflows on their cron schedules",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			runCommand(),
			listCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Scheduler stopped", "error", err)
		os.Exit(1)
	}
}
