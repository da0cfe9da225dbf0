package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinlylog/internal/formatter"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/services"
	"github.com/desertthunder/vinlylog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LinksAdd resolves a URL's metadata and appends it to the user's list.
func (r *Runner) LinksAdd(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.StringArg("url")

	session, err := r.signIn(ctx, cmd)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("⏳ %s\n", update.Message)
		}
	}()

	entry, err := r.engine.AddLink(ctx, session, rawURL, cmd.String("note"), progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Added %s", entry.URL)
	r.writePlainln("  Provider: %s", entry.Provider)
	if entry.Title != "" {
		r.writePlainln("  Title: %s", entry.Title)
	}
	r.writePlainln("  Added at: %s", entry.AddedAt)
	return nil
}

// LinksRemove deletes the entry identified by its addedAt stamp and URL.
func (r *Runner) LinksRemove(ctx context.Context, cmd *cli.Command) error {
	session, err := r.signIn(ctx, cmd)
	if err != nil {
		return err
	}

	addedAt := cmd.String("added-at")
	url := cmd.String("url")

	if err := r.engine.RemoveLink(ctx, session, addedAt, url); err != nil {
		return err
	}

	r.writePlainln("✓ Removed %s", url)
	return nil
}

// LinksList prints a user's entries, newest first.
func (r *Runner) LinksList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	entries, err := engine.ListLinks(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's links (%d)", cmd.String("user"), len(entries)))
	r.writeEntries(entries)
	return nil
}

// LinksSearch filters a user's entries by a case-insensitive substring.
func (r *Runner) LinksSearch(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	matches, err := engine.SearchLinks(ctx, cmd.String("user"), query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(matches, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Matches for %q (%d)", query, len(matches)))
	r.writeEntries(matches)
	return nil
}

// LinksRefresh re-resolves a user's links into the local metadata cache.
func (r *Runner) LinksRefresh(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.RefreshCache(ctx, cmd.String("user"), tasks.RefreshOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlainHeader("Refresh Complete")
	r.writePlain("Links: %d\n", result.TotalLinks)
	r.writePlain("Refreshed: %d\n", result.Refreshed)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, outcome := range result.Outcomes {
			if outcome.Error != nil {
				r.writePlain("  - %s: %v\n", outcome.URL, outcome.Error)
			}
		}
	}
	return nil
}

// LinksExport writes a user's list to disk in the requested format.
func (r *Runner) LinksExport(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	username := cmd.String("user")
	entries, err := engine.ListLinks(ctx, username)
	if err != nil {
		return err
	}

	output := cmd.String("output")

	switch cmd.String("format") {
	case "csv":
		result, err := formatter.WriteCSVExport(username, entries, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Wrote %s and %s", result.LinksFile, result.MetadataFile)

	case "markdown", "md":
		var cover string
		if len(entries) > 0 {
			cover = entries[0].ThumbURL
		}
		result, err := formatter.WriteMarkdownExport(username, entries, output, cover)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Wrote %d file(s) to %s", len(result.Files), result.Directory)

	case "txt", "text":
		path, err := formatter.WriteTextExport(username, entries, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Wrote %s", path)

	default:
		return fmt.Errorf("unknown format %q (expected csv, markdown, or txt)", cmd.String("format"))
	}
	return nil
}

// writeEntries renders a numbered entry list.
func (r *Runner) writeEntries(entries []models.LinkEntry) {
	for i, entry := range entries {
		title := entry.Title
		if title == "" {
			title = services.LinkLabel(entry.URL)
		}
		r.writePlain("%d. [%s] %s\n", i+1, entry.Provider, title)
		r.writePlain("   %s\n", entry.URL)
		if entry.Note != "" {
			r.writePlain("   Note: %s\n", entry.Note)
		}
		r.writePlain("   Added: %s\n", entry.AddedAt)
	}
}

// linksCommand handles operations on a user's link list.
func linksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "Manage links on the shared list",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Resolve a URL's metadata and add it to your list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags: append(userFlags(),
					&cli.StringFlag{
						Name:    "note",
						Aliases: []string{"n"},
						Usage:   "Optional note stored with the link",
					},
				),
				Action: r.LinksAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a link by its addedAt stamp and URL",
				Flags: append(userFlags(),
					&cli.StringFlag{
						Name:     "added-at",
						Usage:    "The entry's addedAt timestamp",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "The entry's URL",
						Required: true,
					},
				),
				Action: r.LinksRemove,
			},
			{
				Name:  "list",
				Usage: "List a user's links, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username on the shared list",
						Required: true,
					},
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
				Action: r.LinksList,
			},
			{
				Name:  "search",
				Usage: "Search a user's links by title, note, or URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username on the shared list",
						Required: true,
					},
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
				Action: r.LinksSearch,
			},
			{
				Name:  "refresh",
				Usage: "Re-resolve a user's links into the local metadata cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username on the shared list",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent resolution workers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Provider requests per second",
						Value: 5,
					},
				},
				Action: r.LinksRefresh,
			},
			{
				Name:  "export",
				Usage: "Export a user's links to csv, markdown, or txt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username on the shared list",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file base or directory, format dependent)",
					},
				},
				Action: r.LinksExport,
			},
		},
	}
}
