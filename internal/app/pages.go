package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/api"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
)

// DisplayName resolves the name shown for the signed-in user: the basic
// profile's full name, else the email, else "User". Signed out yields "".
func (a *App) DisplayName(ctx context.Context) (string, error) {
	u, err := a.identity.CurrentUser(ctx)
	if err != nil || u == nil {
		return "", err
	}
	basic, err := a.backend.GetBasicProfile(ctx, u.ID)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			a.log.Warn("load basic profile", "err", err)
		}
		return core.DisplayName(u, nil), nil
	}
	return core.DisplayName(u, &basic), nil
}

// SearchPage is the result of one project search.
type SearchPage struct {
	Query     core.SearchQuery
	Result    core.SearchResult
	ShareLink string
}

// Search runs q against the backend and records it in the local history.
func (a *App) Search(ctx context.Context, q core.SearchQuery) (SearchPage, error) {
	if q.Limit == 0 {
		q.Limit = a.config.Search.Limit
	}
	result, err := a.backend.SearchProjects(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	a.recordSearch(ctx, q, result)
	return SearchPage{Query: q, Result: result, ShareLink: a.ShareLink(q)}, nil
}

func (a *App) recordSearch(ctx context.Context, q core.SearchQuery, result core.SearchResult) {
	if a.history == nil || q.IsEmpty() {
		return
	}
	entry := history.Entry{Query: q, ResultCount: result.Count, SearchType: result.SearchType}
	if u, err := a.identity.CurrentUser(ctx); err == nil && u != nil {
		entry.UserID = u.ID
	}
	if _, err := a.history.Add(ctx, entry); err != nil {
		a.log.Warn("record search", "err", err)
	}
}

// ShareLink is the web link that reproduces q.
func (a *App) ShareLink(q core.SearchQuery) string {
	return q.ShareLink(a.config.WebBaseURL)
}

// DefaultQuery is an empty query carrying the configured search defaults.
func (a *App) DefaultQuery() core.SearchQuery {
	return core.SearchQuery{UseSemantic: a.config.Search.Semantic, Limit: a.config.Search.Limit}
}

// RecentSearches lists the recorded searches of the current user, newest
// first.
func (a *App) RecentSearches(ctx context.Context, limit int) ([]history.Entry, error) {
	if a.history == nil {
		return nil, nil
	}
	opts := history.QueryOptions{Limit: limit}
	if u, err := a.identity.CurrentUser(ctx); err == nil && u != nil {
		opts.UserID = u.ID
	}
	return a.history.List(ctx, opts)
}

// ErrHistoryDisabled is returned when no search history store is open.
var ErrHistoryDisabled = errors.New("search history is not available")

// Rerun repeats the recorded search id.
func (a *App) Rerun(ctx context.Context, id string) (SearchPage, error) {
	if a.history == nil {
		return SearchPage{}, ErrHistoryDisabled
	}
	entry, err := a.history.Get(ctx, id)
	if err != nil {
		return SearchPage{}, err
	}
	return a.Search(ctx, entry.Query)
}

// SearchStats summarises the recorded searches.
func (a *App) SearchStats(ctx context.Context) (history.Stats, error) {
	if a.history == nil {
		return history.Stats{}, ErrHistoryDisabled
	}
	return a.history.Stats(ctx)
}

// ClearSearches forgets every recorded search.
func (a *App) ClearSearches(ctx context.Context) error {
	if a.history == nil {
		return nil
	}
	return a.history.Clear(ctx)
}

// PruneSearches keeps only the newest keep searches.
func (a *App) PruneSearches(ctx context.Context, keep int) (int64, error) {
	if a.history == nil || keep <= 0 {
		return 0, nil
	}
	res, err := a.history.Prune(ctx, history.PruneOptions{KeepLast: keep})
	return res.DeletedCount, err
}

// ProjectPage is a project's detail as seen by the current user.
type ProjectPage struct {
	Detail core.ProjectDetail
	User   *core.User
}

// LoadProject fetches a project. When someone is signed in the detail
// includes their match analysis.
func (a *App) LoadProject(ctx context.Context, projectID int64) (ProjectPage, error) {
	u, err := a.identity.CurrentUser(ctx)
	if err != nil {
		return ProjectPage{}, err
	}
	var userID string
	if u != nil {
		userID = u.ID
	}
	detail, err := a.backend.GetProject(ctx, projectID, userID)
	if err != nil {
		return ProjectPage{}, err
	}
	return ProjectPage{Detail: detail, User: u}, nil
}

// HistoryPage is the interaction history screen.
type HistoryPage struct {
	Interactions core.InteractionList
	Stats        core.InteractionStats
}

// LoadHistory fetches the user's interactions (optionally of one kind) and
// statistics concurrently.
func (a *App) LoadHistory(ctx context.Context, kind core.InteractionKind, limit int) (HistoryPage, error) {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return HistoryPage{}, err
	}

	var page HistoryPage
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := a.backend.ListInteractions(ctx, u.ID, api.ListOptions{Kind: kind, Limit: limit})
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		page.Interactions = list
		return nil
	})
	g.Go(func() error {
		stats, err := a.backend.InteractionStats(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		page.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return HistoryPage{}, err
	}
	return page, nil
}

// DeleteInteraction removes one of the user's interaction records.
func (a *App) DeleteInteraction(ctx context.Context, id int64) error {
	if _, err := a.RequireUser(ctx); err != nil {
		return err
	}
	return a.backend.DeleteInteraction(ctx, id)
}

// Stats returns the user's interaction statistics.
func (a *App) Stats(ctx context.Context) (core.InteractionStats, error) {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return core.InteractionStats{}, err
	}
	return a.backend.InteractionStats(ctx, u.ID)
}

// ActivitySummary returns the backend's activity summary for the user.
func (a *App) ActivitySummary(ctx context.Context) (core.ActivitySummary, error) {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return core.ActivitySummary{}, err
	}
	return a.backend.ActivitySummary(ctx, u.ID)
}

// Bookmarks returns the user's bookmarked projects.
func (a *App) Bookmarks(ctx context.Context) (core.BookmarkList, error) {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return core.BookmarkList{}, err
	}
	return a.backend.Bookmarks(ctx, u.ID)
}

// ProfilePage holds both profiles of the user. A profile that has not been
// created yet is nil.
type ProfilePage struct {
	User    *core.User
	Profile *core.Profile
	Basic   *core.BasicProfile
}

// LoadProfile fetches the recommendation and basic profiles concurrently.
func (a *App) LoadProfile(ctx context.Context) (ProfilePage, error) {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return ProfilePage{}, err
	}

	page := ProfilePage{User: u}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.backend.GetProfile(ctx, u.ID)
		switch {
		case errors.Is(err, api.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("load profile: %w", err)
		}
		page.Profile = &p
		return nil
	})
	g.Go(func() error {
		b, err := a.backend.GetBasicProfile(ctx, u.ID)
		switch {
		case errors.Is(err, api.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("load basic profile: %w", err)
		}
		page.Basic = &b
		return nil
	})
	if err := g.Wait(); err != nil {
		return ProfilePage{}, err
	}
	return page, nil
}

// SaveProfile stores the user's recommendation profile.
func (a *App) SaveProfile(ctx context.Context, p core.Profile) error {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return err
	}
	return a.backend.SaveProfile(ctx, u.ID, p)
}

// SaveBasicProfile stores the user's display identity.
func (a *App) SaveBasicProfile(ctx context.Context, p core.BasicProfile) error {
	u, err := a.RequireUser(ctx)
	if err != nil {
		return err
	}
	return a.backend.SaveBasicProfile(ctx, u.ID, p)
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email        string
	Password     string
	FullName     string
	Username     string
	Organization string
	FieldOfStudy string
	Phone        string
}

func (in SignUpInput) metadata() map[string]any {
	m := map[string]any{}
	for k, v := range map[string]string{
		"full_name":      in.FullName,
		"username":       in.Username,
		"organization":   in.Organization,
		"field_of_study": in.FieldOfStudy,
		"phone":          in.Phone,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// SignUp creates the account with the identity provider and registers the
// user with the backend. identity.ErrConfirmationRequired is returned, after
// registration, when the email must be confirmed before signing in.
func (a *App) SignUp(ctx context.Context, in SignUpInput) (*core.User, error) {
	user, err := a.identity.SignUp(ctx, in.Email, in.Password, in.metadata())
	if user == nil {
		return nil, err
	}
	signUpErr := err
	if signUpErr != nil && !errors.Is(signUpErr, identity.ErrConfirmationRequired) {
		return nil, signUpErr
	}

	if _, err := uuid.Parse(user.ID); err != nil {
		return nil, fmt.Errorf("identity provider returned an invalid user id %q", user.ID)
	}
	email := user.Email
	if email == "" {
		email = in.Email
	}
	if err := a.backend.CreateUser(ctx, api.NewUser{
		UserID:   user.ID,
		Email:    email,
		Username: in.Username,
		FullName: in.FullName,
	}); err != nil {
		return user, fmt.Errorf("save account: %w", err)
	}

	if in.FullName != "" && in.Username != "" && (in.Organization != "" || in.FieldOfStudy != "" || in.Phone != "") {
		if err := a.backend.SaveBasicProfile(ctx, user.ID, core.BasicProfile{
			FullName:     in.FullName,
			Username:     in.Username,
			Organization: in.Organization,
			FieldOfStudy: in.FieldOfStudy,
			Phone:        in.Phone,
		}); err != nil {
			a.log.Warn("save basic profile after sign up", "err", err)
		}
	}
	return user, signUpErr
}

// SignIn signs in with email and password.
func (a *App) SignIn(ctx context.Context, email, password string) (*core.User, error) {
	return a.identity.SignIn(ctx, email, password)
}

// SignInWithOAuth signs in through provider in the browser.
func (a *App) SignInWithOAuth(ctx context.Context, provider string) (*core.User, error) {
	return a.identity.SignInWithOAuth(ctx, provider)
}

// SignOut signs the user out.
func (a *App) SignOut(ctx context.Context) error {
	return a.identity.SignOut(ctx)
}

// Health reports backend availability.
func (a *App) Health(ctx context.Context) (api.HealthStatus, error) {
	return a.backend.Health(ctx)
}

// Sources lists the project sources known to the backend.
func (a *App) Sources(ctx context.Context) (core.SourceCatalog, error) {
	return a.backend.Sources(ctx)
}
