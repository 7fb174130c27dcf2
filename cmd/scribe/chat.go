package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	cli "github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Aliases:   []string{"c"},
		Usage:     "Ask the shop assistant; without a query starts an interactive session",
		ArgsUsage: "[query]",
		Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
			chat, err := e.chat(command)
			if err != nil {
				return err
			}

			if command.Args().Len() > 0 {
				reply, _ := chat.Respond(ctx, strings.Join(command.Args().Slice(), " "))
				_, err := fmt.Fprintln(e.out, reply)

				return err
			}

			return chatLoop(ctx, command.Root().Reader, e.out, func(ctx context.Context, query string) string {
				reply, _ := chat.Respond(ctx, query)

				return reply
			})
		}),
	}
}

// chatLoop answers one query per input line until EOF, "exit" or "quit".
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, respond func(context.Context, string) string) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(query) {
		case "":
			fmt.Fprint(out, "> ")

			continue
		case "exit", "quit":
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s\n> ", respond(ctx, query))
	}

	fmt.Fprintln(out)

	return scanner.Err()
}
