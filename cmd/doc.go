package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// DocGet prints the entire shared document.
func (r *Runner) DocGet(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	doc, err := engine.Document(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(doc, cmd.Bool("pretty"))
}

// docCommand handles raw document access for debugging.
func docCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "doc",
		Usage: "Raw access to the shared document",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch and print the full document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.DocGet,
			},
		},
	}
}
