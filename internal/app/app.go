// Package app wires the backend, identity and local history together and
// exposes the page-level loaders the CLI and TUI screens are built on.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/api"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/config"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history/sqlite"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/logger"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/transport"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

// ErrNotSignedIn is returned by loaders that need a user when nobody is
// signed in.
var ErrNotSignedIn = errors.New("not signed in: run `recsys login` first")

// Backend is the recommendation service.
type Backend interface {
	widget.Service

	Health(ctx context.Context) (api.HealthStatus, error)
	InteractionStats(ctx context.Context, userID string) (core.InteractionStats, error)
	Bookmarks(ctx context.Context, userID string) (core.BookmarkList, error)
	ActivitySummary(ctx context.Context, userID string) (core.ActivitySummary, error)

	SearchProjects(ctx context.Context, q core.SearchQuery) (core.SearchResult, error)
	GetProject(ctx context.Context, projectID int64, userID string) (core.ProjectDetail, error)
	Sources(ctx context.Context) (core.SourceCatalog, error)

	CreateUser(ctx context.Context, u api.NewUser) error
	GetProfile(ctx context.Context, userID string) (core.Profile, error)
	SaveProfile(ctx context.Context, userID string, p core.Profile) error
	GetBasicProfile(ctx context.Context, userID string) (core.BasicProfile, error)
	SaveBasicProfile(ctx context.Context, userID string, p core.BasicProfile) error
}

var _ Backend = (*api.Client)(nil)

// App is the main application container with dependency injection.
type App struct {
	config   *config.Config
	backend  Backend
	identity identity.Provider
	history  history.Store
	log      *log.Logger
}

// Option is a function that configures the App.
type Option func(*App)

// New creates a new App with the given options.
func New(opts ...Option) *App {
	a := &App{
		config: config.DefaultConfig(),
		log:    logger.With("component", "app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithBackend sets the recommendation backend.
func WithBackend(b Backend) Option {
	return func(a *App) {
		a.backend = b
	}
}

// WithIdentity sets the identity provider.
func WithIdentity(p identity.Provider) Option {
	return func(a *App) {
		a.identity = p
	}
}

// WithHistory sets the recent-search store. Without one, searches are not
// recorded.
func WithHistory(s history.Store) Option {
	return func(a *App) {
		a.history = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// Build assembles an App from configuration: the HTTP backend, the Supabase
// session store backed by the OS keyring and the sqlite search history.
// The returned func releases resources.
func Build(cfg *config.Config, tokens identity.TokenStore, browser func(string) error) (*App, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	backend := api.NewClient(cfg.APIBaseURL,
		transport.WithTimeout(cfg.Timeout),
		transport.WithLogger(logger.With("component", "api")),
	)

	opts := []Option{WithConfig(cfg), WithBackend(backend)}

	if cfg.RequireAuth() == nil {
		auth := identity.NewGoTrue(cfg.Supabase.URL, cfg.Supabase.AnonKey,
			transport.WithTimeout(cfg.Timeout),
			transport.WithLogger(logger.With("component", "gotrue")),
		)
		storeOpts := []identity.StoreOption{identity.WithCallbackPort(cfg.Supabase.OAuthRedirectPort)}
		if browser != nil {
			storeOpts = append(storeOpts, identity.WithBrowser(browser))
		}
		opts = append(opts, WithIdentity(identity.NewStore(auth, tokens, storeOpts...)))
	} else {
		opts = append(opts, WithIdentity(anonymous{}))
	}

	cleanup := func() {}
	if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath()), 0o755); err != nil {
		logger.Warn("search history disabled", "err", err)
	} else if store, err := sqlite.New(cfg.HistoryPath()); err != nil {
		logger.Warn("search history disabled", "err", err)
	} else {
		opts = append(opts, WithHistory(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("close search history", "err", err)
			}
		}
	}

	return New(opts...), cleanup, nil
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Backend returns the recommendation backend.
func (a *App) Backend() Backend {
	return a.backend
}

// Identity returns the identity provider.
func (a *App) Identity() identity.Provider {
	return a.identity
}

// History returns the recent-search store, or nil.
func (a *App) History() history.Store {
	return a.history
}

// CurrentUser returns the signed-in user or nil.
func (a *App) CurrentUser(ctx context.Context) (*core.User, error) {
	return a.identity.CurrentUser(ctx)
}

// RequireUser returns the signed-in user or ErrNotSignedIn.
func (a *App) RequireUser(ctx context.Context) (*core.User, error) {
	u, err := a.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotSignedIn
	}
	return u, nil
}

// NewWidget creates an interaction widget for projectID backed by this
// app's backend and identity. The caller mounts it.
func (a *App) NewWidget(projectID int64, notify widget.Notifier) *widget.Widget {
	var opts []widget.Option
	if notify != nil {
		opts = append(opts, widget.WithNotifier(notify))
	}
	return widget.New(projectID, a.backend, a.identity, opts...)
}

// anonymous is the identity provider used when sign in is not configured.
type anonymous struct{}

func (anonymous) CurrentUser(context.Context) (*core.User, error) { return nil, nil }
func (anonymous) SignUp(context.Context, string, string, map[string]any) (*core.User, error) {
	return nil, config.ErrAuthNotConfigured
}
func (anonymous) SignIn(context.Context, string, string) (*core.User, error) {
	return nil, config.ErrAuthNotConfigured
}
func (anonymous) SignInWithOAuth(context.Context, string) (*core.User, error) {
	return nil, config.ErrAuthNotConfigured
}
func (anonymous) SignOut(context.Context) error      { return nil }
func (anonymous) Subscribe(identity.Listener) func() { return func() {} }
