package views

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/api"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/config"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history/sqlite"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
)

const testUserID = "0b6d9a9e-8d8e-4a43-9a52-2c5f1f3c1a11"

// fakeIdentity notifies its listeners synchronously, like identity.Store.
type fakeIdentity struct {
	mu        sync.Mutex
	user      *core.User
	listeners map[int]identity.Listener
	nextID    int
}

func newFakeIdentity(user *core.User) *fakeIdentity {
	return &fakeIdentity{user: user, listeners: map[int]identity.Listener{}}
}

func (f *fakeIdentity) CurrentUser(context.Context) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string, _ map[string]any) (*core.User, error) {
	return nil, identity.ErrConfirmationRequired
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*core.User, error) {
	if password != "secret" {
		return nil, &identity.AuthError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	u := &core.User{ID: testUserID, Email: email}
	f.mu.Lock()
	f.user = u
	f.mu.Unlock()
	f.notify(identity.SignedIn, u)
	return u, nil
}

func (f *fakeIdentity) SignInWithOAuth(context.Context, string) (*core.User, error) {
	return nil, fmt.Errorf("oauth is not available in tests")
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	f.user = nil
	f.mu.Unlock()
	f.notify(identity.SignedOut, nil)
	return nil
}

func (f *fakeIdentity) Subscribe(l identity.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = l
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeIdentity) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *fakeIdentity) notify(event identity.Event, user *core.User) {
	f.mu.Lock()
	ls := make([]identity.Listener, 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l(event, user)
	}
}

// fakeBackend serves the endpoints the screens use.
type fakeBackend struct {
	mu      sync.Mutex
	nextID  int64
	records []core.InteractionRecord
	basic   *core.BasicProfile
	posted  map[string]json.RawMessage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
}

func (f *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, core.SearchResult{
			Projects: []core.ProjectSummary{
				{ID: 5, Title: "React Dashboard", Difficulty: "beginner", Source: core.SourceGitHub},
				{ID: 6, Title: "Titanic", Difficulty: "intermediate", Source: core.SourceKaggleCompetition},
			},
			Count:      2,
			SearchType: "keyword",
		})
	})

	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if id != 5 && id != 6 {
			notFound(w)
			return
		}
		detail := core.ProjectDetail{
			ProjectSummary: core.ProjectSummary{ID: id, Title: fmt.Sprintf("Project %d", id), Source: core.SourceGitHub},
		}
		if r.URL.Query().Get("user_id") != "" {
			detail.MatchAnalysis = &core.MatchAnalysis{Score: 80, MatchingSkills: []string{"Go"}}
		}
		writeJSON(w, http.StatusOK, detail)
	})

	mux.HandleFunc("GET /api/interactions/{user}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := core.InteractionList{Interactions: []core.InteractionRecord{}}
		for _, rec := range f.records {
			if rec.UserID == r.PathValue("user") {
				list.Interactions = append(list.Interactions, rec)
			}
		}
		list.Total = len(list.Interactions)
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/interactions/{user}/stats", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		stats := core.InteractionStats{ByType: map[core.InteractionKind]int{}}
		for _, rec := range f.records {
			stats.TotalInteractions++
			stats.ByType[rec.Kind]++
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("POST /api/interactions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		projectID, _ := strconv.ParseInt(q.Get("project_id"), 10, 64)
		rec := core.InteractionRecord{
			UserID:    q.Get("user_id"),
			ProjectID: projectID,
			Kind:      core.InteractionKind(q.Get("interaction_type")),
		}
		if v := q.Get("rating"); v != "" {
			n, _ := strconv.Atoi(v)
			rec.Rating = &n
		}
		f.mu.Lock()
		f.nextID++
		rec.ID = f.nextID
		f.records = append(f.records, rec)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, core.CreatedInteraction{
			Message: "Interaction created", ID: rec.ID, UserID: rec.UserID,
			ProjectID: rec.ProjectID, Kind: rec.Kind, Rating: rec.Rating,
		})
	})

	mux.HandleFunc("PUT /api/interactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.records {
			if f.records[i].ID != id {
				continue
			}
			if v := r.URL.Query().Get("rating"); v == "null" {
				f.records[i].Rating = nil
			} else {
				n, _ := strconv.Atoi(v)
				f.records[i].Rating = &n
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
			return
		}
		notFound(w)
	})

	mux.HandleFunc("DELETE /api/interactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, rec := range f.records {
			if rec.ID == id {
				f.records = append(f.records[:i], f.records[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
				return
			}
		}
		notFound(w)
	})

	mux.HandleFunc("GET /api/users/{id}/profile", func(w http.ResponseWriter, r *http.Request) {
		notFound(w)
	})

	mux.HandleFunc("GET /api/users/{id}/basic-profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.basic == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, f.basic)
	})

	for _, path := range []string{"/api/users/{id}/profile", "/api/users/{id}/basic-profile"} {
		mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
				return
			}
			f.mu.Lock()
			f.posted[path] = body
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]string{"message": "saved"})
		})
	}

	return mux
}

func (f *fakeBackend) seed(recs ...core.InteractionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recs...)
}

func (f *fakeBackend) setBasic(b core.BasicProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.basic = &b
}

func (f *fakeBackend) Records() []core.InteractionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.InteractionRecord(nil), f.records...)
}

func (f *fakeBackend) Posted(path string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posted[path]
}

// harness drives a MainView without a running program: commands are
// executed by drain and their messages fed back into Update.
type harness struct {
	t       *testing.T
	view    *MainView
	app     *app.App
	ident   *fakeIdentity
	backend *fakeBackend
	sent    chan tea.Msg
}

func newHarness(t *testing.T, user *core.User) *harness {
	t.Helper()
	backend := &fakeBackend{nextID: 100, posted: map[string]json.RawMessage{}}
	server := httptest.NewServer(backend.routes())
	t.Cleanup(server.Close)

	store, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ident := newFakeIdentity(user)
	cfg := config.DefaultConfig()
	cfg.WebBaseURL = "https://recsys.example.com"
	a := app.New(
		app.WithConfig(cfg),
		app.WithBackend(api.NewClient(server.URL+"/api")),
		app.WithIdentity(ident),
		app.WithHistory(store),
	)

	h := &harness{t: t, app: a, ident: ident, backend: backend, sent: make(chan tea.Msg, 256)}
	h.view = NewMainView(context.Background(), a)
	h.view.SetSender(func(msg tea.Msg) {
		select {
		case h.sent <- msg:
		default:
		}
	})
	t.Cleanup(h.view.Close)

	h.view.SetSize(100, 30)
	h.drain(h.view.Init())
	return h
}

// roundWait bounds how long drain waits for commands that are timers.
const roundWait = 300 * time.Millisecond

// drain runs cmds and everything they lead to until the view is idle.
// Timers (notice expiry, spinner and cursor ticks) are dropped.
func (h *harness) drain(cmds ...tea.Cmd) {
	h.t.Helper()
	pending := cmds
	for round := 0; round < 40; round++ {
		results := make(chan tea.Msg, len(pending))
		running := 0
		for _, cmd := range pending {
			if cmd == nil {
				continue
			}
			running++
			go func(cmd tea.Cmd) { results <- cmd() }(cmd)
		}

		var msgs []tea.Msg
		deadline := time.After(roundWait)
	wait:
		for running > 0 {
			select {
			case msg := <-results:
				running--
				msgs = append(msgs, msg)
			case <-deadline:
				break wait
			}
		}
	sent:
		for {
			select {
			case msg := <-h.sent:
				msgs = append(msgs, msg)
			default:
				break sent
			}
		}

		pending = nil
		for _, msg := range msgs {
			pending = append(pending, h.feed(msg)...)
		}
		if len(pending) == 0 {
			return
		}
	}
	h.t.Fatal("view did not settle")
}

func (h *harness) feed(msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case nil, spinner.TickMsg, clearNoticeMsg, tea.QuitMsg:
		return nil
	case tea.BatchMsg:
		return msg
	}
	if strings.HasPrefix(fmt.Sprintf("%T", msg), "cursor.") {
		return nil
	}
	_, cmd := h.view.Update(msg)
	return []tea.Cmd{cmd}
}

// send delivers msg and drains what follows.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	_, cmd := h.view.Update(msg)
	h.drain(cmd)
}

// press types s: named keys ("enter", "esc", "tab", "shift+tab") or runes.
func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
