package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/repositories"
	"github.com/desertthunder/vinlylog/internal/services"
	"github.com/desertthunder/vinlylog/internal/shared"
	"github.com/desertthunder/vinlylog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The document store, pipeline, and cache are built lazily so commands that
// never touch the remote document (setup, resolve) work without credentials.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	store    services.DocumentStore
	resolver tasks.LinkResolver
	cache    tasks.MetadataCache
	engine   *tasks.ShelfEngine
	db       *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
// Store, Resolver, and Cache are injection points for tests.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      services.DocumentStore
	Resolver   tasks.LinkResolver
	Cache      tasks.MetadataCache
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		resolver:   opts.Resolver,
		cache:      opts.Cache,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, signinCommand, linksCommand, resolveCommand, docCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// initResolver builds the provider pipeline if one was not injected.
func (r *Runner) initResolver(ctx context.Context) tasks.LinkResolver {
	if r.resolver != nil {
		return r.resolver
	}

	opts := services.PipelineOpts{Logger: r.logger}
	if r.config.Providers.Spotify.Enabled() {
		api, err := services.NewSpotifyAPI(ctx, r.config.Providers.Spotify)
		if err != nil {
			r.logger.Warn("spotify enrichment disabled", "err", err)
		} else {
			opts.Spotify = services.NewSpotifyResolver(nil, api)
		}
	}

	r.resolver = services.NewPipeline(opts)
	return r.resolver
}

// initCache opens the local metadata cache. A cache failure is soft: the
// engine runs without one.
func (r *Runner) initCache() tasks.MetadataCache {
	if r.cache != nil || r.config.Cache.Path == "" {
		return r.cache
	}

	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		r.logger.Warn("metadata cache unavailable", "path", r.config.Cache.Path, "err", err)
		return nil
	}
	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("metadata cache unavailable", "path", r.config.Cache.Path, "err", err)
		db.Close()
		return nil
	}

	r.db = db
	r.cache = repositories.NewLinkCacheRepository(db, 0)
	return r.cache
}

// initEngine wires the shelf engine, failing when the document store
// configuration is incomplete.
func (r *Runner) initEngine(ctx context.Context) (*tasks.ShelfEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if r.store == nil {
		store, err := services.NewJSONBinService(r.config.JSONBin, r.httpClient)
		if err != nil {
			return nil, fmt.Errorf("document store not configured (run 'vinlylog setup config'): %w", err)
		}
		r.store = store
	}

	r.engine = tasks.NewShelfEngine(r.store, r.initResolver(ctx), r.initCache(), r.logger)
	return r.engine, nil
}

// signIn authenticates the --user/--pin flags against the document and
// returns the session for mutating commands.
func (r *Runner) signIn(ctx context.Context, cmd *cli.Command) (models.Session, error) {
	engine, err := r.initEngine(ctx)
	if err != nil {
		return models.Session{}, err
	}

	session, status, err := engine.SignIn(ctx, cmd.String("user"), cmd.String("pin"))
	if err != nil {
		return models.Session{}, err
	}
	if status == tasks.StatusCreated {
		r.writePlainln("✓ Registered new user: %s", session.Username)
	}
	return session, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
