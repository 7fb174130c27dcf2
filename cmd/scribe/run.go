package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run a workflow definition file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "YAML or JSON workflow definition",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Initial input; defaults to the definition's input",
			},
		},
		Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
			wf, err := workflow.LoadDefinition(command.String("file"))
			if err != nil {
				return err
			}

			result, err := e.runner.RunWorkflow(ctx, wf, command.String("input"))

			return printOutputs(e.out, result, err)
		}),
	}
}

func workflowsCommand() *cli.Command {
	return &cli.Command{
		Name:    "workflows",
		Aliases: []string{"wf"},
		Usage:   "Manage saved workflows",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved workflows",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					workflows, err := e.workflows.List(ctx)
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tSTEPS\tSCHEDULE")

					for _, wf := range workflows {
						fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", wf.ID, wf.Name, len(wf.Steps), wf.Schedule)
					}

					return w.Flush()
				}),
			},
			{
				Name:  "save",
				Usage: "Save a workflow definition file; an existing id is replaced",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML or JSON workflow definition",
						Required: true,
					},
				},
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					wf, err := workflow.LoadDefinition(command.String("file"))
					if err != nil {
						return err
					}

					saved, err := e.workflows.Save(ctx, *wf)
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(e.out, saved.ID)

					return err
				}),
			},
			{
				Name:      "run",
				Usage:     "Run a saved workflow",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Initial input; defaults to the saved input",
					},
				},
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					id, err := idArgument(command)
					if err != nil {
						return err
					}

					result, err := e.workflows.Run(ctx, id, command.String("input"))

					return printOutputs(e.out, result, err)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved workflow",
				ArgsUsage: "<id>",
				Action: withEnv(func(ctx context.Context, command *cli.Command, e *env) error {
					id, err := idArgument(command)
					if err != nil {
						return err
					}

					return e.workflows.Delete(ctx, id)
				}),
			},
		},
	}
}

// printOutputs prints every step output, including the partial outputs of an aborted run.
func printOutputs(out io.Writer, result *models.WorkflowResult, err error) error {
	var stepErr *workflow.StepError
	if err != nil && !errors.As(err, &stepErr) {
		return err
	}

	if result != nil {
		for i, output := range result.Outputs {
			fmt.Fprintf(out, "--- Step %d ---\n%s\n", i+1, output)
		}
	}

	return err
}

func idArgument(command *cli.Command) (string, error) {
	id := command.Args().First()
	if id == "" {
		return "", errors.New("missing id argument")
	}

	return id, nil
}
