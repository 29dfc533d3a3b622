package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cookie/internal/api"
	"github.com/mmcdole/cookie/internal/config"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/log"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/mmcdole/cookie/internal/store"
	"github.com/mmcdole/cookie/internal/tui"
	"github.com/spf13/cobra"
)

// app holds what the commands share. Config is loaded before every command;
// the client, cache and services are built on first use.
type app struct {
	configDir string

	mgr    *config.Manager
	cfg    *config.Config
	logger *slog.Logger
	logs   io.Closer

	client *api.Client
	cache  *store.CacheStore

	search   *service.SearchService
	reviews  *service.ReviewService
	user     *service.UserService
	matchUps *service.MatchUpService
	session  *service.SessionService
}

var cli = &app{}

// rootCmd runs the TUI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "cookie",
	Short: "Browse movies, reviews and match-ups from the terminal.",
	Long: `cookie is a terminal client for the Cookie movie community: search movies,
read and write reviews, follow your liked movies and badges, and vote in match-ups.

Run without a subcommand to open the interactive UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cli.loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cli.configDir, "config", "", "config directory (default is ~/.config/cookie)")
}

func (a *app) loadConfig() error {
	a.mgr = config.NewManager(a.configDir)
	cfg, err := a.mgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	a.logger = logger
	a.logs = closer
	slog.SetDefault(logger)

	logger.Info("starting cookie", "version", Version)
	return nil
}

// connect builds the API client, cache and services
func (a *app) connect() error {
	if a.client != nil {
		return nil
	}

	client, err := api.NewClient(api.Options{
		BaseURL:   a.cfg.Server.URL,
		Token:     a.cfg.Server.Token,
		Timeout:   a.cfg.API.Timeout,
		RateLimit: a.cfg.API.RateLimit,
		UserAgent: a.cfg.API.UserAgent,
	}, a.logger)
	if err != nil {
		return err
	}

	cache, err := store.NewCacheStore(a.cfg.Cache.Dir, a.cfg.Server.URL, a.cfg.Cache.TTL)
	if err != nil {
		// Another instance may hold the database lock; fall back to memory
		a.logger.Warn("cache unavailable, using memory", "dir", a.cfg.Cache.Dir, "error", err)
		cache, err = store.NewCacheStore("", "", a.cfg.Cache.TTL)
		if err != nil {
			return err
		}
	}

	size := a.cfg.API.PageSize
	a.client = client
	a.cache = cache
	a.search = service.NewSearchService(client, cache, size, a.logger)
	a.reviews = service.NewReviewService(client, size, a.logger)
	a.user = service.NewUserService(client, cache, size, a.logger)
	a.matchUps = service.NewMatchUpService(client, cache, a.logger)
	a.session = service.NewSessionService(client, a.mgr, client, cache, a.logger)
	return nil
}

// requireSession connects and fails early when no token is stored
func (a *app) requireSession() error {
	if !a.cfg.IsConfigured() {
		return fmt.Errorf("%w: run `cookie login --server URL` first", domain.ErrNotConfigured)
	}
	return a.connect()
}

// Close releases the cache and the log file
func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close cache", "error", err)
		}
	}
	if a.logs != nil {
		a.logs.Close()
	}
}

func (a *app) runTUI() error {
	if err := a.requireSession(); err != nil {
		return err
	}

	model := tui.NewModel(tui.Services{
		Search:   a.search,
		Reviews:  a.reviews,
		User:     a.user,
		MatchUps: a.matchUps,
	}, tui.Options{
		PrefetchThreshold: a.cfg.UI.PrefetchThreshold,
		Timeout:           a.cfg.API.Timeout,
		Admin:             a.cfg.Server.Admin,
		SearchType:        a.cfg.SearchType(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	a.logger.Info("shutting down")
	return nil
}

// describeError rewrites the errors a user can act on
func describeError(err error) error {
	switch {
	case api.IsAuthError(err):
		return fmt.Errorf("%w (run `cookie login`)", err)
	case errors.Is(err, domain.ErrServerOffline):
		return fmt.Errorf("%w (check server.url in the config)", err)
	}
	return err
}
