package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

func keyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage the stored OpenAI API key",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store the API key; an empty key removes it",
				ArgsUsage: "<key>",
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					return e.settings.SetAPIKey(ctx, command.Args().First())
				}),
			},
			{
				Name:  "clear",
				Usage: "Remove the stored API key",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					return e.settings.SetAPIKey(ctx, "")
				}),
			},
			{
				Name:  "status",
				Usage: "Report whether an API key is stored",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					configured, err := e.settings.HasAPIKey(ctx)
					if err != nil {
						return err
					}

					if configured {
						_, err = fmt.Fprintln(e.out, "API key configured")
					} else {
						_, err = fmt.Fprintln(e.out, "API key not configured")
					}

					return err
				}),
			},
		},
	}
}
