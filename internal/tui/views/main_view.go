package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/components"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

// Screen is one of the TUI's top-level screens.
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenProject
	ScreenHistory
	ScreenProfile
)

var screens = []Screen{ScreenSearch, ScreenProject, ScreenHistory, ScreenProfile}

func (s Screen) String() string {
	switch s {
	case ScreenSearch:
		return "Search"
	case ScreenProject:
		return "Project"
	case ScreenHistory:
		return "History"
	case ScreenProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

func (s Screen) scope() keys.Scope {
	switch s {
	case ScreenProject:
		return keys.ScopeProject
	case ScreenHistory:
		return keys.ScopeHistory
	case ScreenProfile:
		return keys.ScopeProfile
	default:
		return keys.ScopeSearch
	}
}

const (
	noticeDuration = 3 * time.Second
	recentLimit    = 20
	historyLimit   = 50
)

// Messages produced by the view's own commands.
type (
	// resultMsg wraps the outcome of backend work started by run.
	resultMsg struct{ msg tea.Msg }

	identityMsg    struct{ user *core.User }
	nameMsg        struct{ name string }
	noticeMsg      struct{ notice widget.Notice }
	clearNoticeMsg struct{ seq int }

	searchDoneMsg struct {
		page app.SearchPage
		err  error
	}
	recentDoneMsg struct {
		entries []history.Entry
		err     error
	}
	projectDoneMsg struct {
		id   int64
		page app.ProjectPage
		err  error
	}
	// widgetDoneMsg reports a finished widget call. Errors were already
	// surfaced as notices by the widget, except ErrBusy.
	widgetDoneMsg struct{ err error }
	historyDoneMsg struct {
		page app.HistoryPage
		err  error
	}
	deleteDoneMsg  struct{ err error }
	profileDoneMsg struct {
		page app.ProfilePage
		err  error
	}
	authDoneMsg struct {
		user    *core.User
		err     error
		signOut bool
	}
	savedMsg struct {
		what string
		err  error
	}
)

// MainView is the root of the TUI: four screens, a status bar and the
// modal sign in and profile forms.
type MainView struct {
	ctx  context.Context
	app  *app.App
	keys *keys.KeyMap

	sendMu sync.Mutex
	send   func(tea.Msg)

	width    int
	height   int
	screen   Screen
	previous Screen

	search  *components.SearchPanel
	project *components.ProjectPanel
	history *components.HistoryPanel
	profile *components.ProfilePanel

	widget   *widget.Widget
	openID   int64
	unbind   []func()
	user     *core.User
	userName string

	pending int
	spinner spinner.Model

	form      *huh.Form
	formTitle string
	onSubmit  func() tea.Cmd
	showHelp  bool

	notice    widget.Notice
	noticeSeq int
}

// NewMainView creates the main view. Backend work runs on ctx.
func NewMainView(ctx context.Context, a *app.App) *MainView {
	v := &MainView{
		ctx:     ctx,
		app:     a,
		keys:    keys.DefaultKeyMap(),
		search:  components.NewSearchPanel(a.DefaultQuery()),
		project: components.NewProjectPanel(),
		history: components.NewHistoryPanel(),
		profile: components.NewProfilePanel(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	v.search.Focus()
	v.unbind = append(v.unbind, a.Identity().Subscribe(func(_ identity.Event, user *core.User) {
		v.emit(identityMsg{user: user})
	}))
	return v
}

// SetSender sets the function used to deliver messages from outside the
// bubbletea loop, normally (*tea.Program).Send.
func (v *MainView) SetSender(send func(tea.Msg)) {
	v.sendMu.Lock()
	defer v.sendMu.Unlock()
	v.send = send
}

func (v *MainView) emit(msg tea.Msg) {
	v.sendMu.Lock()
	send := v.send
	v.sendMu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Close stops listening for identity changes and unmounts the widget.
func (v *MainView) Close() {
	for _, unbind := range v.unbind {
		unbind()
	}
	v.unbind = nil
	if v.widget != nil {
		v.widget.Unmount()
	}
}

// Init loads the signed-in user.
func (v *MainView) Init() tea.Cmd {
	return tea.Batch(v.search.Init(), v.run(func(ctx context.Context) tea.Msg {
		user, err := v.app.CurrentUser(ctx)
		if err != nil {
			return noticeMsg{notice: errorNotice("Session", err)}
		}
		return identityMsg{user: user}
	}))
}

// run starts fn as a command and tracks it for the busy indicator.
func (v *MainView) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	v.pending++
	ctx := v.ctx
	work := func() tea.Msg { return resultMsg{msg: fn(ctx)} }
	if v.pending == 1 {
		return tea.Batch(work, v.spinner.Tick)
	}
	return work
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	if cmd, ok := v.handleResult(msg); ok {
		return v, cmd
	}
	if v.form != nil {
		return v, v.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	case components.SearchRequestMsg:
		return v, v.runSearch(msg.Query)
	case components.RecentSearchesMsg:
		return v, v.run(func(ctx context.Context) tea.Msg {
			entries, err := v.app.RecentSearches(ctx, recentLimit)
			return recentDoneMsg{entries: entries, err: err}
		})
	case components.OpenProjectMsg:
		return v, v.openProject(msg.ID)
	case components.ToggleInteractionMsg:
		return v, v.widgetCall(func(ctx context.Context, w *widget.Widget) error {
			return w.Toggle(ctx, msg.Kind)
		})
	case components.RateProjectMsg:
		return v, v.widgetCall(func(ctx context.Context, w *widget.Widget) error {
			return w.Rate(ctx, msg.Stars)
		})
	case components.LoadHistoryMsg:
		return v, v.loadHistory(msg.Kind)
	case components.DeleteInteractionMsg:
		return v, v.run(func(ctx context.Context) tea.Msg {
			return deleteDoneMsg{err: v.app.DeleteInteraction(ctx, msg.ID)}
		})
	case components.LoadProfileMsg:
		return v, v.loadProfile()
	case components.EditProfileMsg:
		return v, v.editProfile()
	case components.EditBasicProfileMsg:
		return v, v.editBasicProfile()
	case components.BackMsg:
		back := v.previous
		if back == ScreenProject {
			back = ScreenSearch
		}
		return v, v.switchTo(back)
	case components.CopyMsg:
		return v, v.copy(msg)
	}

	return v, v.forward(msg)
}

// handleResult handles messages that must be processed whatever is on
// screen, including while a form is open.
func (v *MainView) handleResult(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case resultMsg:
		v.pending = max(v.pending-1, 0)
		_, cmd := v.Update(msg.msg)
		return cmd, true

	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		if v.form != nil {
			v.form = v.form.WithWidth(v.formWidth())
		}
		return nil, true

	case spinner.TickMsg:
		if !v.Busy() {
			return nil, true
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd, true

	case noticeMsg:
		return v.setNotice(msg.notice), true

	case clearNoticeMsg:
		if msg.seq == v.noticeSeq {
			v.notice = widget.Notice{}
		}
		return nil, true

	case identityMsg:
		return v.onIdentity(msg.user), true

	case nameMsg:
		v.userName = msg.name
		return nil, true

	case authDoneMsg:
		return v.onAuth(msg), true

	case searchDoneMsg:
		if msg.err != nil {
			v.search.SetError(msg.err)
			return nil, true
		}
		v.search.SetResult(msg.page)
		return nil, true

	case recentDoneMsg:
		if msg.err != nil {
			return v.setNotice(errorNotice("Recent searches", msg.err)), true
		}
		v.search.SetRecent(msg.entries)
		return nil, true

	case projectDoneMsg:
		if msg.id != v.openID {
			return nil, true
		}
		if msg.err != nil {
			v.project.SetError(msg.err)
			return nil, true
		}
		v.project.SetProject(msg.page)
		v.syncWidget()
		return nil, true

	case widgetDoneMsg:
		v.syncWidget()
		if errors.Is(msg.err, widget.ErrBusy) {
			return v.setNotice(widget.Notice{Level: widget.LevelInfo, Title: "Please wait", Message: "an update is still in progress"}), true
		}
		return nil, true

	case historyDoneMsg:
		if msg.err != nil {
			v.history.SetError(msg.err)
			return nil, true
		}
		v.history.SetPage(msg.page)
		return nil, true

	case deleteDoneMsg:
		if msg.err != nil {
			return v.setNotice(errorNotice("Delete failed", msg.err)), true
		}
		cmds := []tea.Cmd{
			v.setNotice(widget.Notice{Level: widget.LevelSuccess, Title: "Interaction deleted"}),
			v.loadHistory(v.history.Kind()),
		}
		if id := v.openID; v.widget != nil && id != 0 {
			cmds = append(cmds, v.widgetCall(func(ctx context.Context, w *widget.Widget) error {
				return w.SetProject(ctx, id)
			}))
		}
		return tea.Batch(cmds...), true

	case profileDoneMsg:
		if msg.err != nil {
			v.profile.SetError(msg.err)
			return nil, true
		}
		v.profile.SetPage(msg.page)
		return nil, true

	case savedMsg:
		if msg.err != nil {
			return v.setNotice(errorNotice("Save failed", msg.err)), true
		}
		cmds := []tea.Cmd{
			v.setNotice(widget.Notice{Level: widget.LevelSuccess, Title: "Saved", Message: msg.what}),
			v.loadProfile(),
			v.loadName(),
		}
		if v.openID != 0 {
			cmds = append(cmds, v.loadProject(v.openID))
		}
		return tea.Batch(cmds...), true
	}
	return nil, false
}

func (v *MainView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if v.showHelp {
		if keys.Match("?", msg) || keys.Match("esc", msg) || keys.Match("q", msg) {
			v.showHelp = false
		}
		return nil
	}
	if v.screen == ScreenSearch && v.search.Editing() {
		return v.forward(msg)
	}

	switch {
	case keys.Match("q", msg):
		return tea.Quit
	case keys.Match("?", msg):
		v.showHelp = true
		return nil
	case keys.Match("tab", msg):
		return v.switchTo(screens[(int(v.screen)+1)%len(screens)])
	case keys.Match("shift+tab", msg):
		return v.switchTo(screens[(int(v.screen)+len(screens)-1)%len(screens)])
	case keys.Match("L", msg):
		if v.user != nil {
			return v.run(func(ctx context.Context) tea.Msg {
				return authDoneMsg{err: v.app.SignOut(ctx), signOut: true}
			})
		}
		return v.openLogin()
	case keys.Match("U", msg):
		return v.openSignUp()
	}

	// Digits rate on the project screen and switch screens elsewhere.
	if n, ok := keys.Digit(msg); ok && v.screen != ScreenProject && n >= 1 && n <= len(screens) {
		return v.switchTo(screens[n-1])
	}
	return v.forward(msg)
}

func (v *MainView) forward(msg tea.Msg) tea.Cmd {
	_, cmd := v.current().Update(msg)
	return cmd
}

func (v *MainView) current() tui.Component {
	switch v.screen {
	case ScreenProject:
		return v.project
	case ScreenHistory:
		return v.history
	case ScreenProfile:
		return v.profile
	default:
		return v.search
	}
}

// switchTo shows s and refreshes the data it needs.
func (v *MainView) switchTo(s Screen) tea.Cmd {
	if s == v.screen {
		return nil
	}
	v.current().Blur()
	v.previous, v.screen = v.screen, s
	v.current().Focus()

	switch s {
	case ScreenHistory:
		if v.user != nil {
			return v.loadHistory(v.history.Kind())
		}
	case ScreenProfile:
		if v.user != nil {
			return v.loadProfile()
		}
	}
	return nil
}

func (v *MainView) runSearch(q core.SearchQuery) tea.Cmd {
	v.search.SetLoading(true)
	return v.run(func(ctx context.Context) tea.Msg {
		page, err := v.app.Search(ctx, q)
		return searchDoneMsg{page: page, err: err}
	})
}

// openProject shows the project screen for id and points the widget at it.
func (v *MainView) openProject(id int64) tea.Cmd {
	v.openID = id
	cmd := v.switchTo(ScreenProject)
	cmds := []tea.Cmd{cmd, v.loadProject(id)}

	if v.widget == nil {
		v.widget = v.app.NewWidget(id, func(n widget.Notice) { v.emit(noticeMsg{notice: n}) })
		v.unbind = append(v.unbind, v.widget.Bind(rebindNotifier{
			src:  v.app.Identity(),
			done: func() { v.emit(widgetDoneMsg{}) },
		}))
		cmds = append(cmds, v.widgetCall(func(ctx context.Context, w *widget.Widget) error {
			return w.Mount(ctx)
		}))
	} else if v.widget.ProjectID() != id || !v.widget.Loaded() {
		cmds = append(cmds, v.widgetCall(func(ctx context.Context, w *widget.Widget) error {
			return w.SetProject(ctx, id)
		}))
	}
	v.syncWidget()
	return tea.Batch(cmds...)
}

func (v *MainView) loadProject(id int64) tea.Cmd {
	if v.project.Project() == nil || v.project.Project().Detail.ID != id {
		v.project.SetLoading(true)
	}
	return v.run(func(ctx context.Context) tea.Msg {
		page, err := v.app.LoadProject(ctx, id)
		return projectDoneMsg{id: id, page: page, err: err}
	})
}

func (v *MainView) widgetCall(fn func(ctx context.Context, w *widget.Widget) error) tea.Cmd {
	w := v.widget
	if w == nil {
		return nil
	}
	return v.run(func(ctx context.Context) tea.Msg {
		return widgetDoneMsg{err: fn(ctx, w)}
	})
}

// syncWidget copies the widget's state into the project panel.
func (v *MainView) syncWidget() {
	if v.widget == nil {
		return
	}
	v.project.SetInteractions(v.widget.State(), v.widget.User() != nil, v.widget.Loaded(), v.widget.Busy())
}

func (v *MainView) loadHistory(kind core.InteractionKind) tea.Cmd {
	v.history.SetLoading(true)
	return v.run(func(ctx context.Context) tea.Msg {
		page, err := v.app.LoadHistory(ctx, kind, historyLimit)
		return historyDoneMsg{page: page, err: err}
	})
}

func (v *MainView) loadProfile() tea.Cmd {
	v.profile.SetLoading(true)
	return v.run(func(ctx context.Context) tea.Msg {
		page, err := v.app.LoadProfile(ctx)
		return profileDoneMsg{page: page, err: err}
	})
}

func (v *MainView) loadName() tea.Cmd {
	return v.run(func(ctx context.Context) tea.Msg {
		name, err := v.app.DisplayName(ctx)
		if err != nil {
			return noticeMsg{notice: errorNotice("Session", err)}
		}
		return nameMsg{name: name}
	})
}

// onIdentity refreshes everything that depends on who is signed in.
func (v *MainView) onIdentity(user *core.User) tea.Cmd {
	if sameUser(v.user, user) {
		return nil
	}
	v.user = user
	v.userName = ""
	if user == nil {
		v.history.Clear()
		v.profile.Clear()
		if page := v.project.Project(); page != nil {
			return v.loadProject(page.Detail.ID)
		}
		return nil
	}

	v.userName = user.Email
	cmds := []tea.Cmd{v.loadName()}
	if page := v.project.Project(); page != nil {
		cmds = append(cmds, v.loadProject(page.Detail.ID))
	}
	switch v.screen {
	case ScreenHistory:
		cmds = append(cmds, v.loadHistory(v.history.Kind()))
	case ScreenProfile:
		cmds = append(cmds, v.loadProfile())
	}
	return tea.Batch(cmds...)
}

func sameUser(a, b *core.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func (v *MainView) onAuth(msg authDoneMsg) tea.Cmd {
	switch {
	case msg.signOut && msg.err != nil:
		return v.setNotice(errorNotice("Sign out failed", msg.err))
	case msg.signOut:
		return tea.Batch(v.setNotice(widget.Notice{Level: widget.LevelInfo, Title: "Signed out"}), v.onIdentity(nil))
	case errors.Is(msg.err, identity.ErrConfirmationRequired):
		return v.setNotice(widget.Notice{Level: widget.LevelInfo, Title: "Account created", Message: "check your email to confirm it, then sign in"})
	case msg.err != nil:
		return v.setNotice(errorNotice("Sign in failed", msg.err))
	case msg.user == nil:
		return nil
	}
	return tea.Batch(
		v.setNotice(widget.Notice{Level: widget.LevelSuccess, Title: "Signed in", Message: msg.user.Email}),
		v.onIdentity(msg.user),
	)
}

func (v *MainView) openLogin() tea.Cmd {
	var email, password string
	return v.openForm("Sign in", components.NewLoginForm(&email, &password), func() tea.Cmd {
		return v.run(func(ctx context.Context) tea.Msg {
			user, err := v.app.SignIn(ctx, email, password)
			return authDoneMsg{user: user, err: err}
		})
	})
}

func (v *MainView) openSignUp() tea.Cmd {
	in := &app.SignUpInput{}
	return v.openForm("Sign up", components.NewSignUpForm(in), func() tea.Cmd {
		return v.run(func(ctx context.Context) tea.Msg {
			user, err := v.app.SignUp(ctx, *in)
			return authDoneMsg{user: user, err: err}
		})
	})
}

func (v *MainView) editProfile() tea.Cmd {
	page := v.profile.Page()
	if page == nil {
		return v.setNotice(widget.Notice{Level: widget.LevelError, Title: "Profile", Message: "sign in and load your profile first"})
	}
	p := &core.Profile{}
	if page.Profile != nil {
		*p = *page.Profile
	}
	form := components.NewProfileForm(p)
	return v.openForm("Recommendation profile", form.Form, func() tea.Cmd {
		if err := form.Apply(); err != nil {
			return v.setNotice(errorNotice("Invalid profile", err))
		}
		return v.run(func(ctx context.Context) tea.Msg {
			return savedMsg{what: "recommendation profile", err: v.app.SaveProfile(ctx, *p)}
		})
	})
}

func (v *MainView) editBasicProfile() tea.Cmd {
	page := v.profile.Page()
	if page == nil {
		return v.setNotice(widget.Notice{Level: widget.LevelError, Title: "Profile", Message: "sign in and load your profile first"})
	}
	b := &core.BasicProfile{}
	if page.Basic != nil {
		*b = *page.Basic
	}
	return v.openForm("Personal details", components.NewBasicProfileForm(b), func() tea.Cmd {
		return v.run(func(ctx context.Context) tea.Msg {
			return savedMsg{what: "personal details", err: v.app.SaveBasicProfile(ctx, *b)}
		})
	})
}

func (v *MainView) openForm(title string, form *huh.Form, submit func() tea.Cmd) tea.Cmd {
	v.form = form.WithWidth(v.formWidth())
	v.formTitle = title
	v.onSubmit = submit
	return v.form.Init()
}

func (v *MainView) closeForm() {
	v.form = nil
	v.formTitle = ""
	v.onSubmit = nil
}

func (v *MainView) updateForm(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		v.closeForm()
		return nil
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		submit := v.onSubmit
		v.closeForm()
		return tea.Batch(cmd, submit())
	case huh.StateAborted:
		v.closeForm()
	}
	return cmd
}

func (v *MainView) formWidth() int {
	return min(max(v.width-8, 20), 72)
}

func (v *MainView) copy(msg components.CopyMsg) tea.Cmd {
	if err := clipboard.WriteAll(msg.Content); err != nil {
		return v.setNotice(errorNotice("Copy failed", err))
	}
	return v.setNotice(widget.Notice{Level: widget.LevelSuccess, Title: "Copied", Message: msg.Label})
}

// setNotice shows n in the status bar until the next notice or until
// noticeDuration has passed.
func (v *MainView) setNotice(n widget.Notice) tea.Cmd {
	v.noticeSeq++
	v.notice = n
	seq := v.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func errorNotice(title string, err error) widget.Notice {
	return widget.Notice{Level: widget.LevelError, Title: title, Message: err.Error()}
}

// rebindNotifier hands identity changes to the widget's listener and
// reports once the widget has reconciled.
type rebindNotifier struct {
	src  widget.Subscriber
	done func()
}

func (r rebindNotifier) Subscribe(l identity.Listener) func() {
	return r.src.Subscribe(func(event identity.Event, user *core.User) {
		l(event, user)
		r.done()
	})
}

// Busy reports whether backend work or a widget write is in flight.
func (v *MainView) Busy() bool {
	return v.pending > 0 || (v.widget != nil && v.widget.Busy())
}

// Mode is the current input mode.
func (v *MainView) Mode() keys.Mode {
	switch {
	case v.form != nil:
		return keys.ModeForm
	case v.screen == ScreenSearch && v.search.Editing():
		return keys.ModeInsert
	default:
		return keys.ModeNormal
	}
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.showHelp {
		return v.renderHelp()
	}
	if v.screen == ScreenProject {
		v.syncWidget()
	}

	body := v.current().View()
	if v.form != nil {
		body = v.renderForm()
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.renderTabs(), body, v.renderHelpBar(), v.renderStatusBar())
}

func (v *MainView) renderTabs() string {
	active := lipgloss.NewStyle().
		Background(tui.ColorFocus).
		Foreground(tui.ColorHighlight).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	tabs := make([]string, 0, len(screens))
	for i, s := range screens {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == v.screen {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(v.width).Render(strings.Join(tabs, " "))
}

func (v *MainView) renderForm() string {
	title := lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true).Render(v.formTitle)
	hint := lipgloss.NewStyle().Foreground(tui.ColorMuted).Render("esc cancel")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorFocus).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", v.form.View(), hint))

	return lipgloss.Place(v.width, v.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// renderHelpBar renders the keys of the current screen.
func (v *MainView) renderHelpBar() string {
	keyStyle := lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sep := lipgloss.NewStyle().Foreground(tui.ColorMuted).Render(" │ ")

	var hints []string
	switch v.Mode() {
	case keys.ModeForm:
		hints = []string{
			keyStyle.Render("Tab") + descStyle.Render(" Next field"),
			keyStyle.Render("Enter") + descStyle.Render(" Submit"),
			keyStyle.Render("Esc") + descStyle.Render(" Cancel"),
		}
	case keys.ModeInsert:
		hints = []string{
			keyStyle.Render("Enter") + descStyle.Render(" Search"),
			keyStyle.Render("Esc") + descStyle.Render(" Done"),
		}
	default:
		for _, b := range v.keys.Bindings(v.screen.scope()) {
			hints = append(hints, keyStyle.Render(b.Label())+descStyle.Render(" "+b.Description()))
		}
		hints = append(hints,
			keyStyle.Render("Tab")+descStyle.Render(" Screen"),
			keyStyle.Render("?")+descStyle.Render(" Help"),
		)
	}

	return lipgloss.NewStyle().
		Width(v.width).
		MaxHeight(1).
		Background(tui.ColorBar).
		Padding(0, 1).
		Render(strings.Join(hints, sep))
}

// renderStatusBar renders the mode, the screen, the signed-in user and the
// current notice.
func (v *MainView) renderStatusBar() string {
	modeStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch v.Mode() {
	case keys.ModeInsert:
		modeStyle = modeStyle.Background(tui.ColorAccent).Foreground(lipgloss.Color("0"))
	case keys.ModeForm:
		modeStyle = modeStyle.Background(tui.ColorFocus).Foreground(tui.ColorHighlight)
	default:
		modeStyle = modeStyle.Background(tui.ColorSuccess).Foreground(lipgloss.Color("255"))
	}
	items := []string{
		modeStyle.Render(v.Mode().String()),
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1).Render(v.screen.String()),
	}

	if v.user != nil {
		items = append(items, lipgloss.NewStyle().
			Background(tui.ColorFocus).
			Foreground(tui.ColorHighlight).
			Bold(true).
			Padding(0, 1).
			Render(v.DisplayName()))
	} else {
		items = append(items, lipgloss.NewStyle().
			Background(tui.ColorMuted).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1).
			Render("Not signed in"))
	}

	if v.Busy() {
		items = append(items, v.spinner.View())
	}

	if v.notice.Title != "" {
		style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		text := v.notice.String()
		switch v.notice.Level {
		case widget.LevelError:
			style = style.Foreground(tui.ColorError)
			text = "✗ " + text
		case widget.LevelSuccess:
			style = style.Foreground(tui.ColorSuccess)
			text = "✓ " + text
		default:
			style = style.Foreground(lipgloss.Color("252"))
		}
		items = append(items, style.Render(text))
	}

	helpHint := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Padding(0, 1).Render("? help  q quit")
	left := strings.Join(items, " ")
	spacer := strings.Repeat(" ", max(v.width-lipgloss.Width(left)-lipgloss.Width(helpHint), 0))

	return lipgloss.NewStyle().
		Width(v.width).
		MaxHeight(1).
		Background(tui.ColorStatus).
		Render(left + spacer + helpHint)
}

func (v *MainView) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(tui.ColorAccent).Width(12)

	sections := []struct {
		name  string
		scope keys.Scope
	}{
		{"General", keys.ScopeGlobal},
		{"Search", keys.ScopeSearch},
		{"Project", keys.ScopeProject},
		{"History", keys.ScopeHistory},
		{"Profile", keys.ScopeProfile},
	}

	lines := []string{title.Render("Project Recommendations"), ""}
	for _, s := range sections {
		lines = append(lines, title.Render(s.name))
		for _, b := range v.keys.Bindings(s.scope) {
			lines = append(lines, "  "+keyStyle.Render(b.Label())+b.Description())
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"  "+keyStyle.Render("1-4")+"jump to a screen (outside Project)",
		"",
		lipgloss.NewStyle().Foreground(tui.ColorMuted).Render("Press ? or Esc to close"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorFocus).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

func (v *MainView) bodyHeight() int {
	return max(v.height-3, 1)
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "Project Recommendations"
}

func (v *MainView) Focused() bool { return true }
func (v *MainView) Focus()        {}
func (v *MainView) Blur()         {}

// SetSize sets the terminal size and lays out the screens.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	for _, c := range []tui.Component{v.search, v.project, v.history, v.profile} {
		c.SetSize(width, v.bodyHeight())
	}
}

func (v *MainView) Width() int  { return v.width }
func (v *MainView) Height() int { return v.height }

// Screen returns the visible screen.
func (v *MainView) Screen() Screen {
	return v.screen
}

// User returns the signed-in user, or nil.
func (v *MainView) User() *core.User {
	return v.user
}

// DisplayName is the name shown for the signed-in user.
func (v *MainView) DisplayName() string {
	if v.userName != "" {
		return v.userName
	}
	return core.DisplayName(v.user, nil)
}

// Notice returns the notice shown in the status bar.
func (v *MainView) Notice() widget.Notice {
	return v.notice
}

// FormOpen reports whether a form overlays the screen.
func (v *MainView) FormOpen() bool {
	return v.form != nil
}

// ShowingHelp reports whether the help overlay is visible.
func (v *MainView) ShowingHelp() bool {
	return v.showHelp
}

// Widget returns the interaction widget of the open project, or nil.
func (v *MainView) Widget() *widget.Widget {
	return v.widget
}

func (v *MainView) SearchPanel() *components.SearchPanel   { return v.search }
func (v *MainView) ProjectPanel() *components.ProjectPanel { return v.project }
func (v *MainView) HistoryPanel() *components.HistoryPanel { return v.history }
func (v *MainView) ProfilePanel() *components.ProfilePanel { return v.profile }
