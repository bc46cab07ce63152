package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// InteractionKind is one of the four independent engagement flags a user
// can set on a project.
type InteractionKind string

const (
	KindViewed     InteractionKind = "viewed"
	KindBookmarked InteractionKind = "bookmarked"
	KindStarted    InteractionKind = "started"
	KindCompleted  InteractionKind = "completed"
)

// AllKinds returns the flag kinds in display order.
func AllKinds() []InteractionKind {
	return []InteractionKind{KindViewed, KindBookmarked, KindStarted, KindCompleted}
}

// KindLabels holds the active/inactive labels used by the interaction widget.
var KindLabels = map[InteractionKind][2]string{
	KindViewed:     {"Mark as Viewed", "Marked as Viewed"},
	KindBookmarked: {"Bookmark Project", "Bookmarked"},
	KindStarted:    {"Mark as Started", "Started"},
	KindCompleted:  {"Mark as Completed", "Completed"},
}

// ParseInteractionKind validates a kind name.
func ParseInteractionKind(s string) (InteractionKind, error) {
	k := InteractionKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("invalid interaction type %q: must be one of viewed, bookmarked, started, completed", s)
	}
	return k, nil
}

// Valid reports whether k is one of the four flag kinds.
func (k InteractionKind) Valid() bool {
	switch k {
	case KindViewed, KindBookmarked, KindStarted, KindCompleted:
		return true
	}
	return false
}

func (k InteractionKind) String() string {
	return string(k)
}

// Label returns the button label for the given active state.
func (k InteractionKind) Label(active bool) string {
	labels, ok := KindLabels[k]
	if !ok {
		return string(k)
	}
	if active {
		return labels[1]
	}
	return labels[0]
}

// MinRating and MaxRating bound a star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is a storable star rating.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// InteractionRecord is a single engagement record owned by the backend.
// The project fields are only populated by the per-user list endpoint.
type InteractionRecord struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	ProjectID int64           `json:"project_id"`
	Kind      InteractionKind `json:"interaction_type"`
	Rating    *int            `json:"rating"`
	CreatedAt Timestamp       `json:"timestamp"`

	ProjectTitle       string   `json:"project_title,omitempty"`
	ProjectDescription string   `json:"project_description,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	Topics             []string `json:"topics,omitempty"`
	RepoURL            *string  `json:"repo_url,omitempty"`
	EstimatedHours     *int     `json:"estimated_hours,omitempty"`
	Source             string   `json:"source,omitempty"`
}

// HasRating reports whether the record carries a star rating.
func (r InteractionRecord) HasRating() bool {
	return r.Rating != nil && *r.Rating > 0
}

// InteractionList is the response of the per-user list endpoint.
type InteractionList struct {
	Interactions []InteractionRecord `json:"interactions"`
	Total        int                 `json:"total"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
}

// ForProject returns the records belonging to projectID, preserving order.
func (l InteractionList) ForProject(projectID int64) []InteractionRecord {
	var out []InteractionRecord
	for _, rec := range l.Interactions {
		if rec.ProjectID == projectID {
			out = append(out, rec)
		}
	}
	return out
}

// CreatedInteraction is the backend's acknowledgement of a create.
type CreatedInteraction struct {
	Message   string          `json:"message"`
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	ProjectID int64           `json:"project_id"`
	Kind      InteractionKind `json:"interaction_type"`
	Rating    *int            `json:"rating"`
}

// InteractionStats summarises a user's engagement.
type InteractionStats struct {
	TotalInteractions int                     `json:"total_interactions"`
	ByType            map[InteractionKind]int `json:"by_type"`
	AverageRating     *float64                `json:"average_rating"`
	RecentActivity30d int                     `json:"recent_activity_30d"`
}

// Count returns the number of records of kind k.
func (s InteractionStats) Count(k InteractionKind) int {
	return s.ByType[k]
}

// Bookmark is a bookmarked project as returned by the bookmarks endpoint.
type Bookmark struct {
	ProjectID      int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RepoURL        *string   `json:"repo_url"`
	Difficulty     string    `json:"difficulty"`
	Topics         []string  `json:"topics"`
	EstimatedHours *int      `json:"estimated_hours"`
	Source         string    `json:"source"`
	Stars          *int      `json:"stars"`
	Language       *string   `json:"language"`
	BookmarkedAt   Timestamp `json:"bookmarked_at"`
}

// BookmarkList is the response of the bookmarks endpoint.
type BookmarkList struct {
	Bookmarks []Bookmark `json:"bookmarks"`
	Total     int        `json:"total"`
}

// ActivitySummary is the backend's aggregate view of a user's activity.
type ActivitySummary struct {
	TotalInteractions  int      `json:"total_interactions"`
	ProjectsViewed     int      `json:"projects_viewed"`
	ProjectsBookmarked int      `json:"projects_bookmarked"`
	ProjectsStarted    int      `json:"projects_started"`
	ProjectsCompleted  int      `json:"projects_completed"`
	AvgRating          *float64 `json:"avg_rating"`
	TotalLearningHours int      `json:"total_learning_hours"`
	SkillsCount        int      `json:"skills_count"`
	MostActiveCategory *string  `json:"most_active_category"`
	RecentActivity7d   int      `json:"recent_activity_7d"`
	CompletionRate     float64  `json:"completion_rate"`
}

// Timestamp decodes the backend's ISO 8601 timestamps, which may or may not
// carry a zone offset. Naive values are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON accepts RFC 3339 and zone-less ISO timestamps.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON encodes as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
