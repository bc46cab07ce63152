// Package identity manages the signed-in session against the Supabase auth
// service and notifies subscribers when the user signs in or out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/logger"
)

// Event is a change of the signed-in identity.
type Event int

const (
	SignedIn Event = iota + 1
	SignedOut
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Listener receives identity changes. user is nil on SignedOut.
type Listener func(event Event, user *core.User)

// UserSource resolves the current user; nil means nobody is signed in.
type UserSource interface {
	CurrentUser(ctx context.Context) (*core.User, error)
}

// Provider is the identity collaborator used by the screens.
type Provider interface {
	UserSource
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*core.User, error)
	SignIn(ctx context.Context, email, password string) (*core.User, error)
	SignInWithOAuth(ctx context.Context, provider string) (*core.User, error)
	SignOut(ctx context.Context) error
	Subscribe(l Listener) (unsubscribe func())
}

var _ Provider = (*Store)(nil)

// Store is the process-wide owner of the session. Components read from it
// and subscribe to changes; only the Store mutates the session.
type Store struct {
	mu        sync.RWMutex
	auth      *GoTrue
	tokens    TokenStore
	session   *core.Session
	loaded    bool
	listeners map[int]Listener
	nextID    int

	refreshGroup singleflight.Group

	now          func() time.Time
	openBrowser  func(url string) error
	callbackPort int
	log          *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithBrowser sets how the OAuth authorize URL is presented to the user.
func WithBrowser(open func(url string) error) StoreOption {
	return func(s *Store) {
		s.openBrowser = open
	}
}

// WithCallbackPort sets the local port the OAuth callback listens on.
// Zero picks a free port.
func WithCallbackPort(port int) StoreOption {
	return func(s *Store) {
		s.callbackPort = port
	}
}

// WithStoreLogger sets the logger.
func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore creates a session store. The persisted session is loaded lazily
// on first use.
func NewStore(auth *GoTrue, tokens TokenStore, opts ...StoreOption) *Store {
	s := &Store{
		auth:      auth,
		tokens:    tokens,
		listeners: make(map[int]Listener),
		now:       time.Now,
		openBrowser: func(string) error {
			return errors.New("no browser configured")
		},
		log: logger.With("component", "identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(event Event, user *core.User) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	s.log.Debug("identity changed", "event", event, "listeners", len(listeners))
	for _, l := range listeners {
		l(event, user)
	}
}

func (s *Store) ensureLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true
	sess, err := s.tokens.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			s.log.Warn("could not load stored session", "err", err)
		}
		return
	}
	s.session = sess
}

func (s *Store) current() *core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Session returns a copy of the current session, refreshing it if expired.
func (s *Store) Session(ctx context.Context) (*core.Session, error) {
	s.ensureLoaded()
	sess := s.current()
	if sess == nil {
		return nil, nil
	}
	if !sess.Expired(s.now()) {
		return sess, nil
	}
	return s.refresh(ctx, sess.RefreshToken)
}

// CurrentUser returns the signed-in user or nil.
func (s *Store) CurrentUser(ctx context.Context) (*core.User, error) {
	sess, err := s.Session(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	u := sess.User
	return &u, nil
}

// AccessToken returns a valid access token, or "" when signed out.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	sess, err := s.Session(ctx)
	if err != nil || sess == nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// refresh exchanges the refresh token once, however many callers need it.
// It does not notify listeners unless the provider rejects the token, which
// signs the user out.
func (s *Store) refresh(ctx context.Context, refreshToken string) (*core.Session, error) {
	v, err, _ := s.refreshGroup.Do(refreshToken, func() (any, error) {
		sess, err := s.auth.RefreshGrant(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.session = &sess
		s.mu.Unlock()
		if err := s.tokens.Save(sess); err != nil {
			s.log.Warn("could not persist refreshed session", "err", err)
		}
		return &sess, nil
	})
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) && authErr.Status >= http.StatusBadRequest && authErr.Status < http.StatusInternalServerError {
			s.log.Info("refresh token rejected, signing out", "err", err)
			s.clear()
			s.notify(SignedOut, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	cp := *v.(*core.Session)
	return &cp, nil
}

func (s *Store) setSession(sess core.Session) {
	s.mu.Lock()
	s.session = &sess
	s.loaded = true
	s.mu.Unlock()
	if err := s.tokens.Save(sess); err != nil {
		s.log.Warn("could not persist session", "err", err)
	}
	u := sess.User
	s.notify(SignedIn, &u)
}

func (s *Store) clear() {
	s.mu.Lock()
	s.session = nil
	s.loaded = true
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("could not clear stored session", "err", err)
	}
}

// SignUp creates an account and, when the provider issues a session right
// away, signs in. ErrConfirmationRequired is returned with the new user when
// email confirmation is pending.
func (s *Store) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*core.User, error) {
	sess, user, err := s.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		return user, err
	}
	s.setSession(*sess)
	return user, nil
}

// SignIn signs in with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) (*core.User, error) {
	sess, err := s.auth.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.setSession(sess)
	u := sess.User
	return &u, nil
}

// SignOut revokes the session with the provider when possible and always
// forgets it locally.
func (s *Store) SignOut(ctx context.Context) error {
	s.ensureLoaded()
	sess := s.current()
	if sess == nil {
		return nil
	}
	if err := s.auth.Logout(ctx, sess.AccessToken); err != nil {
		s.log.Warn("remote logout failed", "err", err)
	}
	s.clear()
	s.notify(SignedOut, nil)
	return nil
}
