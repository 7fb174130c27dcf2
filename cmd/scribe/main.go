package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/scribe/pkg/cmd"
	"github.com/dukex/scribe/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const serviceName = "scribe"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Chat with the shop assistant, refine text and run prompt workflows",
		EnableShellCompletion: true,
		Flags:                 cmd.CommonFlags(),
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), command.String("log-format"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			chatCommand(),
			refineCommand(),
			generateCommand(),
			runCommand(),
			workflowsCommand(),
			templatesCommand(),
			keyCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
