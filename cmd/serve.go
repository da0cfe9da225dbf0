package main

import (
	"context"

	"github.com/desertthunder/vinlylog/internal/server"
	"github.com/desertthunder/vinlylog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the read-only HTTP facade until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	cfg := shared.ServerConfig{
		Host: r.config.Server.Host,
		Port: r.config.Server.Port,
	}
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	srv := server.NewServer(cfg, engine, r.initResolver(ctx), r.logger)
	return srv.Serve(ctx)
}

// serveCommand runs the HTTP facade.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a read-only HTTP view of the shared list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Bind port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}
