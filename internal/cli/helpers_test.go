package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/api"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/config"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history/sqlite"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
)

const testUserID = "0b6d9a9e-8d8e-4a43-9a52-2c5f1f3c1a11"

var ada = &core.User{ID: testUserID, Email: "ada@example.com"}

type fakeIdentity struct {
	mu   sync.Mutex
	user *core.User
}

func (f *fakeIdentity) CurrentUser(context.Context) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string, metadata map[string]any) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &core.User{ID: testUserID, Email: email, Metadata: metadata}
	return f.user, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if password != "secret" {
		return nil, &identity.AuthError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	f.user = &core.User{ID: testUserID, Email: email}
	return f.user, nil
}

func (f *fakeIdentity) SignInWithOAuth(_ context.Context, provider string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &core.User{ID: testUserID, Email: provider + "@example.com"}
	return f.user, nil
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	return nil
}

func (f *fakeIdentity) Subscribe(identity.Listener) func() { return func() {} }

// fakeBackend is an in-memory recommendation backend.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int64
	records  []core.InteractionRecord
	searches []url.Values
	posted   map[string]json.RawMessage
	profile  *core.Profile
	basic    *core.BasicProfile
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	f := &fakeBackend{nextID: 100, posted: map[string]json.RawMessage{}}
	server := httptest.NewServer(f.routes())
	t.Cleanup(server.Close)
	return f, server.URL + "/api"
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

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("GET /api/sources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, core.SourceCatalog{
			Sources: map[string]core.SourceInfo{
				"github":             {Count: 120, Description: "Open source repositories"},
				"kaggle_competition": {Count: 40, Description: "Kaggle competitions"},
			},
			TotalSources: 2,
		})
	})

	mux.HandleFunc("GET /api/projects/search", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.searches = append(f.searches, r.URL.Query())
		f.mu.Unlock()
		sim := 0.87
		searchType := "keyword"
		if r.URL.Query().Get("use_semantic") == "true" {
			searchType = "semantic"
		}
		writeJSON(w, http.StatusOK, core.SearchResult{
			Projects: []core.ProjectSummary{
				{ID: 5, Title: "React Dashboard", Difficulty: "beginner", Source: core.SourceGitHub, Similarity: &sim},
			},
			Count:      1,
			SearchType: searchType,
		})
	})

	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "5" {
			notFound(w)
			return
		}
		detail := core.ProjectDetail{
			ProjectSummary: core.ProjectSummary{
				ID: 5, Title: "React Dashboard", Difficulty: "beginner", Source: core.SourceGitHub,
				Description: "<p>Build a <b>dashboard</b> &amp; charts</p>",
			},
			Skills: []core.ProjectSkill{{Name: "React", IsRequired: true}, {Name: "Docker"}},
		}
		if r.URL.Query().Get("user_id") != "" {
			detail.MatchAnalysis = &core.MatchAnalysis{Score: 72.5, MatchingSkills: []string{"React"}, MissingSkills: []string{"Docker"}}
		}
		writeJSON(w, http.StatusOK, detail)
	})

	mux.HandleFunc("GET /api/interactions/{user}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kind := r.URL.Query().Get("interaction_type")
		list := core.InteractionList{Interactions: []core.InteractionRecord{}}
		for _, rec := range f.records {
			if rec.UserID == r.PathValue("user") && (kind == "" || string(rec.Kind) == kind) {
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

	mux.HandleFunc("GET /api/interactions/{user}/bookmarks", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := core.BookmarkList{Bookmarks: []core.Bookmark{}}
		for _, rec := range f.records {
			if rec.Kind == core.KindBookmarked {
				list.Bookmarks = append(list.Bookmarks, core.Bookmark{ProjectID: rec.ProjectID, Title: rec.ProjectTitle, Source: "github"})
			}
		}
		list.Total = len(list.Bookmarks)
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/users/{id}/activity-summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, core.ActivitySummary{TotalInteractions: 3, ProjectsCompleted: 1, CompletionRate: 33.3})
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
			if f.records[i].ID == id {
				if v := r.URL.Query().Get("rating"); v == "null" {
					f.records[i].Rating = nil
				} else {
					n, _ := strconv.Atoi(v)
					f.records[i].Rating = &n
				}
				writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
				return
			}
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
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.profile == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, f.profile)
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

	for _, path := range []string{"/api/users/create", "/api/users/{id}/profile", "/api/users/{id}/basic-profile"} {
		path := path
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

func (f *fakeBackend) Records() []core.InteractionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.InteractionRecord(nil), f.records...)
}

func (f *fakeBackend) Searches() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.searches...)
}

func (f *fakeBackend) Posted(path string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posted[path]
}

func newTestApp(t *testing.T, baseURL string, ident identity.Provider) *app.App {
	t.Helper()
	store, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.WebBaseURL = "https://recsys.example.com"
	return app.New(
		app.WithConfig(cfg),
		app.WithBackend(api.NewClient(baseURL)),
		app.WithIdentity(ident),
		app.WithHistory(store),
	)
}

// run executes the command line against a and returns stdout and stderr.
func run(t *testing.T, a *app.App, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand("test", WithApp(a))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
