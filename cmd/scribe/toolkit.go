package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dukex/scribe/pkg/toolkit"
	cli "github.com/urfave/cli/v3"
)

var errNoText = errors.New("no text given")

func refineCommand() *cli.Command {
	return &cli.Command{
		Name:      "refine",
		Usage:     "Rewrite text (improve, professional, casual, concise, expand)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Refinement to apply",
				Value:   string(toolkit.RefineImprove),
			},
		},
		Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
			text, err := textArgument(command)
			if err != nil {
				return err
			}

			result, err := e.toolkit.Refine(ctx, toolkit.RefineKind(command.String("kind")), text)
			if err != nil {
				return err
			}

			return printResult(e.out, result)
		}),
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"g"},
		Usage:     "Generate content about a topic (blog, email, social, copy)",
		ArgsUsage: "[topic]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Kind of content to generate",
				Value:   string(toolkit.ContentBlog),
			},
		},
		Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
			topic, err := textArgument(command)
			if err != nil {
				return err
			}

			result, err := e.toolkit.Generate(ctx, toolkit.ContentKind(command.String("kind")), topic)
			if err != nil {
				return err
			}

			return printResult(e.out, result)
		}),
	}
}

// textArgument joins the positional arguments, reading standard input when there are none.
func textArgument(command *cli.Command) (string, error) {
	if command.Args().Len() > 0 {
		return strings.Join(command.Args().Slice(), " "), nil
	}

	body, err := io.ReadAll(command.Root().Reader)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", errNoText
	}

	return text, nil
}

func printResult(out io.Writer, result string) error {
	if result == "" {
		return errors.New("no result; check that an OpenAI API key is configured")
	}

	_, err := fmt.Fprintln(out, result)

	return err
}
