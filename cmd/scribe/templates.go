package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/scribe/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"t"},
		Usage:   "Manage saved prompt templates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved templates",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					templates, err := e.templates.List(ctx)
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPROMPT")

					for _, t := range templates {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, t.Prompt)
					}

					return w.Flush()
				}),
			},
			{
				Name:  "add",
				Usage: "Save a new template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Template name", Required: true},
					&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "Prompt text", Required: true},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category", Value: "General"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Short description"},
				},
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					saved, err := e.templates.Save(ctx, models.PromptTemplate{
						Name:        command.String("name"),
						Prompt:      command.String("prompt"),
						Category:    command.String("category"),
						Description: command.String("description"),
					})
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(e.out, saved.ID)

					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a template",
				ArgsUsage: "<id>",
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					id, err := idArgument(command)
					if err != nil {
						return err
					}

					return e.templates.Delete(ctx, id)
				}),
			},
		},
	}
}
