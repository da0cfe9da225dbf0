package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinlylog/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to disk for editing.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlainln("✓ Created %s", path)
	r.writePlainln("Fill in jsonbin.bin_id and jsonbin.master_key before signing in.")
	return nil
}

// SetupCache initializes the local metadata cache and runs migrations.
func (r *Runner) SetupCache(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Cache.Path
	if path == "" {
		return fmt.Errorf("%w: cache.path is empty", shared.ErrInvalidConfig)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.writePlainln("✓ Rolled back latest cache migration")
		return nil
	}

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	r.logger.Info("cache ready", "path", path)
	r.writePlainln("✓ Cache initialized at %s", path)
	return nil
}

// setupCommand handles setup operations for configuration and the cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded example",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "cache",
				Usage: "Initialize the local metadata cache and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupCache,
			},
		},
	}
}
