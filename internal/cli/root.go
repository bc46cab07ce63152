package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/config"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/logger"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/views"
)

// Option configures the root command.
type Option func(*env)

// WithApp makes every command use a instead of building one from the
// configuration.
func WithApp(a *app.App) Option {
	return func(e *env) {
		e.app = a
	}
}

// WithTokenStore sets where the session is persisted. The OS keyring is used
// otherwise.
func WithTokenStore(ts identity.TokenStore) Option {
	return func(e *env) {
		e.tokens = ts
	}
}

// env is shared by all commands of one invocation. The App is built lazily
// so that --help and flag errors never touch the keyring or the database.
type env struct {
	configPath string
	debug      bool
	tokens     identity.TokenStore
	app        *app.App
	cleanup    func()
}

// App returns the application, building it on first use.
func (e *env) App(cmd *cobra.Command) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}

	cfg, err := config.Load(e.configPath)
	if err != nil {
		return nil, err
	}
	if e.debug {
		cfg.Debug = true
	}

	// The TUI owns the terminal, so only plain commands mirror logs to stderr.
	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug,
		DataDir: cfg.DataDir,
		Stderr:  cmd != cmd.Root(),
	}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}

	if e.tokens == nil {
		e.tokens = identity.NewKeyringTokenStore(config.KeyringService)
	}
	a, cleanup, err := app.Build(cfg, e.tokens, openBrowser(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	e.app, e.cleanup = a, cleanup
	return a, nil
}

func (e *env) close() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// Execute runs the command line and releases what the invocation opened.
func Execute(ctx context.Context, version string) error {
	e := &env{}
	defer e.close()
	return newRootCommand(version, e).ExecuteContext(ctx)
}

// NewRootCommand creates the root command.
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}
	return newRootCommand(version, e)
}

func newRootCommand(version string, e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recsys",
		Short:   "recsys - project recommendations in your terminal",
		Long:    "recsys searches the project catalogue, shows how well projects match your skills and tracks what you viewed, bookmarked, started, completed and rated.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), a)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVar(&e.debug, "debug", false, "Verbose logging")

	cmd.AddCommand(
		newLoginCommand(e),
		newSignupCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newSearchCommand(e),
		newSearchesCommand(e),
		newProjectCommand(e),
		newInteractCommand(e),
		newHistoryCommand(e),
		newStatsCommand(e),
		newBookmarksCommand(e),
		newProfileCommand(e),
		newSourcesCommand(e),
		newHealthCommand(e),
		newConfigCommand(e),
	)

	return cmd
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(ctx context.Context, a *app.App) error {
	view := views.NewMainView(ctx, a)
	defer view.Close()

	p := tea.NewProgram(tuiModel{view: view}, tea.WithAltScreen(), tea.WithContext(ctx))
	view.SetSender(p.Send)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
