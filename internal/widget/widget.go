// Package widget keeps a user's engagement flags and rating for a single
// project in sync with the backend's interaction records.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/api"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/logger"
)

var (
	// ErrAuthRequired is returned when an operation needs a signed-in user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrBusy is returned while another write for the same widget is in
	// flight or its state is still loading.
	ErrBusy = errors.New("an interaction update is already in progress")
	// ErrInvalidRating is returned for a star value outside 1..5.
	ErrInvalidRating = fmt.Errorf("rating must be between %d and %d", core.MinRating, core.MaxRating)
	// ErrStale is returned when a response arrives after the widget was
	// rebound or unmounted. The response is not applied.
	ErrStale = errors.New("widget changed while the request was in flight")
)

// reconcileLimit is the page size of the mount read; the backend caps it at 100.
const reconcileLimit = 100

// reconcileMaxPages bounds the mount read against a backend that ignores
// the offset.
const reconcileMaxPages = 100

// Service is the subset of the backend the widget talks to.
type Service interface {
	ListInteractions(ctx context.Context, userID string, opts api.ListOptions) (core.InteractionList, error)
	CreateInteraction(ctx context.Context, userID string, projectID int64, kind core.InteractionKind, rating *int) (core.CreatedInteraction, error)
	UpdateRating(ctx context.Context, interactionID int64, rating *int) error
	DeleteInteraction(ctx context.Context, interactionID int64) error
}

// Subscriber delivers identity changes.
type Subscriber interface {
	Subscribe(l identity.Listener) (unsubscribe func())
}

// Widget is the interaction state of one (user, project) pair. All methods
// are safe for concurrent use.
type Widget struct {
	mu        sync.Mutex
	projectID int64
	user      *core.User
	state     State
	loaded    bool
	busy      bool
	gen       uint64

	svc    Service
	users  identity.UserSource
	notify Notifier
	log    *log.Logger
}

// Option configures a Widget.
type Option func(*Widget)

// WithNotifier sets the receiver of user-visible notices.
func WithNotifier(n Notifier) Option {
	return func(w *Widget) {
		w.notify = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Widget) {
		w.log = l
	}
}

// New creates an unmounted widget for projectID.
func New(projectID int64, svc Service, users identity.UserSource, opts ...Option) *Widget {
	w := &Widget{
		projectID: projectID,
		state:     newState(),
		svc:       svc,
		users:     users,
		notify:    func(Notice) {},
		log:       logger.With("component", "widget"),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With("project", projectID)
	return w
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// ProjectID returns the project the widget is bound to.
func (w *Widget) ProjectID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.projectID
}

// User returns the user the widget is bound to, or nil.
func (w *Widget) User() *core.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.user == nil {
		return nil
	}
	u := *w.user
	return &u
}

// Busy reports whether a write is in flight.
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Loaded reports whether the reconciliation read for the current binding
// has completed.
func (w *Widget) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// reset discards state and invalidates outstanding requests. Callers hold mu.
func (w *Widget) reset() uint64 {
	w.gen++
	w.state = newState()
	w.loaded = false
	w.busy = false
	return w.gen
}

// Mount resolves the current user and reconciles state from the backend.
// With nobody signed in the state stays zero and nothing is read.
func (w *Widget) Mount(ctx context.Context) error {
	w.mu.Lock()
	gen := w.reset()
	w.mu.Unlock()

	user, err := w.users.CurrentUser(ctx)
	if err != nil {
		w.mu.Lock()
		if gen == w.gen {
			w.user = nil
			w.loaded = true
		}
		w.mu.Unlock()
		w.log.Error("resolve current user", "err", err)
		w.notify(loadFailed)
		return fmt.Errorf("resolve current user: %w", err)
	}
	return w.reconcile(ctx, gen, user)
}

// Rebind switches the widget to user (nil for signed out) and reconciles.
func (w *Widget) Rebind(ctx context.Context, user *core.User) error {
	w.mu.Lock()
	gen := w.reset()
	w.mu.Unlock()
	return w.reconcile(ctx, gen, user)
}

// SetProject points the widget at another project for the same user.
func (w *Widget) SetProject(ctx context.Context, projectID int64) error {
	w.mu.Lock()
	w.projectID = projectID
	gen := w.reset()
	user := w.user
	w.mu.Unlock()
	return w.reconcile(ctx, gen, user)
}

// Unmount discards state. Responses still in flight are dropped.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
	w.user = nil
}

// Bind rebinds the widget whenever the identity changes. The returned func
// stops listening.
func (w *Widget) Bind(sub Subscriber) func() {
	return sub.Subscribe(func(event identity.Event, user *core.User) {
		w.log.Debug("identity changed", "event", event)
		if err := w.Rebind(context.Background(), user); err != nil && !errors.Is(err, ErrStale) {
			w.log.Warn("rebind after identity change", "err", err)
		}
	})
}

func (w *Widget) reconcile(ctx context.Context, gen uint64, user *core.User) error {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return ErrStale
	}
	if user == nil {
		w.user = nil
		w.loaded = true
		w.mu.Unlock()
		return nil
	}
	u := *user
	w.user = &u
	projectID := w.projectID
	w.mu.Unlock()

	var records []core.InteractionRecord
	for page := 0; ; page++ {
		list, err := w.svc.ListInteractions(ctx, u.ID, api.ListOptions{Limit: reconcileLimit, Offset: page * reconcileLimit})

		w.mu.Lock()
		if gen != w.gen {
			w.mu.Unlock()
			w.log.Debug("discarding stale reconciliation")
			return ErrStale
		}
		if err != nil {
			w.loaded = true
			w.mu.Unlock()
			w.log.Error("load interactions", "user", u.ID, "offset", page*reconcileLimit, "err", err)
			w.notify(loadFailed)
			return fmt.Errorf("load interactions: %w", err)
		}
		w.mu.Unlock()

		records = append(records, list.Interactions...)
		if len(list.Interactions) < reconcileLimit {
			break
		}
		if page+1 == reconcileMaxPages {
			w.log.Warn("interaction list truncated", "user", u.ID, "records", len(records))
			break
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return ErrStale
	}
	w.state = Reduce(projectID, records)
	w.loaded = true
	return nil
}

// call is a write captured under the busy gate.
type call struct {
	gen       uint64
	userID    string
	projectID int64
	state     State
}

// begin takes the busy gate. action names what is refused for anonymous users.
func (w *Widget) begin(action string) (call, error) {
	w.mu.Lock()
	if w.user == nil {
		w.mu.Unlock()
		w.notify(authRequired(action))
		return call{}, ErrAuthRequired
	}
	if w.busy || !w.loaded {
		w.mu.Unlock()
		return call{}, ErrBusy
	}
	w.busy = true
	c := call{gen: w.gen, userID: w.user.ID, projectID: w.projectID, state: w.state.clone()}
	w.mu.Unlock()
	return c, nil
}

// finish releases the gate and, when the call is still current and err is
// nil, applies the confirmed result.
func (w *Widget) finish(c call, err error, failure, success Notice, apply func(*State)) error {
	w.mu.Lock()
	if c.gen != w.gen {
		w.mu.Unlock()
		w.log.Debug("discarding stale response")
		return ErrStale
	}
	w.busy = false
	if err != nil {
		w.mu.Unlock()
		w.log.Error("interaction update failed", "user", c.userID, "err", err)
		w.notify(failure)
		return err
	}
	apply(&w.state)
	w.mu.Unlock()
	w.notify(success)
	return nil
}

// Toggle flips kind: an active flag's record is deleted, an inactive flag
// gets a new record.
func (w *Widget) Toggle(ctx context.Context, kind core.InteractionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown interaction kind %q", kind)
	}
	c, err := w.begin("interact with projects")
	if err != nil {
		return err
	}

	flag := c.state.Flag(kind)
	if flag.Active {
		id := *flag.RecordID
		err := w.svc.DeleteInteraction(ctx, id)
		return w.finish(c, err, interactionFailed, flagRemoved(kind), func(s *State) {
			s.Flags[kind] = FlagState{}
			if s.Rating.RecordID != nil && *s.Rating.RecordID == id {
				s.Rating = RatingState{}
			}
		})
	}

	created, err := w.svc.CreateInteraction(ctx, c.userID, c.projectID, kind, nil)
	return w.finish(c, err, interactionFailed, flagAdded(kind), func(s *State) {
		s.Flags[kind] = FlagState{Active: true, RecordID: idPtr(created.ID)}
	})
}

// Rate applies a star click. Clicking the current rating clears it.
func (w *Widget) Rate(ctx context.Context, star int) error {
	if !core.ValidRating(star) {
		return ErrInvalidRating
	}
	c, err := w.begin("rate projects")
	if err != nil {
		return err
	}

	current := c.state.Rating
	target := star
	if star == current.Value {
		target = 0
	}

	if current.RecordID == nil && target == 0 {
		w.mu.Lock()
		if c.gen == w.gen {
			w.busy = false
		}
		w.mu.Unlock()
		return nil
	}

	if current.RecordID != nil || c.state.Flag(core.KindViewed).Active {
		id := current.RecordID
		if id == nil {
			id = c.state.Flag(core.KindViewed).RecordID
		}
		recordID := *id
		var value *int
		if target > 0 {
			value = &target
		}
		title := "Rating updated"
		if current.Value == 0 {
			title = "Rating added"
		}
		err := w.svc.UpdateRating(ctx, recordID, value)
		return w.finish(c, err, ratingFailed, ratingChanged(title, target), func(s *State) {
			s.Rating = RatingState{Value: target, RecordID: idPtr(recordID)}
		})
	}

	created, err := w.svc.CreateInteraction(ctx, c.userID, c.projectID, core.KindViewed, &target)
	return w.finish(c, err, ratingFailed, ratingChanged("Rating added", target), func(s *State) {
		s.Rating = RatingState{Value: target, RecordID: idPtr(created.ID)}
		s.Flags[core.KindViewed] = FlagState{Active: true, RecordID: idPtr(created.ID)}
	})
}
