package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Resolve classifies a URL and prints its resolved metadata without
// touching the shared document.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.StringArg("url")
	if rawURL == "" {
		return fmt.Errorf("url argument is required")
	}

	resolved := r.initResolver(ctx).Resolve(ctx, rawURL)

	if cmd.Bool("json") {
		return r.writeJSON(resolved, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Resolution")
	r.writePlain("Provider: %s\n", resolved.Provider)
	if resolved.Title != "" {
		r.writePlain("Title: %s\n", resolved.Title)
	}
	if resolved.VideoID != "" {
		r.writePlain("Video ID: %s\n", resolved.VideoID)
	}
	if resolved.ThumbURL != "" {
		r.writePlain("Thumbnail: %s\n", resolved.ThumbURL)
	}
	if resolved.EmbedURL != "" {
		r.writePlain("Embed: %s (height %d)\n", resolved.EmbedURL, resolved.EmbedHeight)
	}
	return nil
}

// resolveCommand handles one-off metadata resolution.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a URL's provider and metadata without storing it",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Resolve,
	}
}
