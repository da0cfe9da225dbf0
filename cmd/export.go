package main

import (
	"context"

	"github.com/desertthunder/vinlylog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the full document to a pretty-printed JSON file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("⏳ %s\n", update.Message)
		}
	}()

	path, err := engine.ExportDocumentFile(ctx, cmd.String("output"), progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported document to %s", path)
	return nil
}

// exportCommand handles full-document backups.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the full shared document as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default vinlylog-export-<date>.json)",
			},
		},
		Action: r.Export,
	}
}
