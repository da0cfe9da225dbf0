package main

import (
	"context"

	"github.com/desertthunder/vinlylog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// userFlags are the identity flags shared by every command that acts on a
// user's list.
func userFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "user",
			Aliases:  []string{"u"},
			Usage:    "Username on the shared list",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pin",
			Aliases:  []string{"p"},
			Usage:    "4-digit pin",
			Required: true,
		},
	}
}

// SignIn authenticates a username and pin, registering the name when it is
// unclaimed.
func (r *Runner) SignIn(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return err
	}

	session, status, err := engine.SignIn(ctx, cmd.String("user"), cmd.String("pin"))
	if err != nil {
		return err
	}

	switch status {
	case tasks.StatusCreated:
		r.writePlainln("✓ Registered new user: %s", session.Username)
	case tasks.StatusSignedIn:
		r.writePlainln("✓ Signed in as %s", session.Username)
	}
	return nil
}

// signinCommand handles identity checks against the shared document.
func signinCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "signin",
		Usage:  "Sign in, registering the username if it is new",
		Flags:  userFlags(),
		Action: r.SignIn,
	}
}
