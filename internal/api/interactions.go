package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// ListOptions filters the per-user interaction list.
type ListOptions struct {
	Kind   core.InteractionKind
	Limit  int
	Offset int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Kind != "" {
		v.Set("interaction_type", string(o.Kind))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	return v
}

// ListInteractions returns the user's interaction records, newest first.
func (c *Client) ListInteractions(ctx context.Context, userID string, opts ListOptions) (core.InteractionList, error) {
	var out core.InteractionList
	if err := c.get(ctx, pathf("/interactions/%s", userID), opts.values(), &out); err != nil {
		return core.InteractionList{}, err
	}
	return out, nil
}

// InteractionStats returns the user's aggregate interaction statistics.
func (c *Client) InteractionStats(ctx context.Context, userID string) (core.InteractionStats, error) {
	var out core.InteractionStats
	if err := c.get(ctx, pathf("/interactions/%s/stats", userID), nil, &out); err != nil {
		return core.InteractionStats{}, err
	}
	return out, nil
}

// Bookmarks returns the user's bookmarked projects.
func (c *Client) Bookmarks(ctx context.Context, userID string) (core.BookmarkList, error) {
	var out core.BookmarkList
	if err := c.get(ctx, pathf("/interactions/%s/bookmarks", userID), nil, &out); err != nil {
		return core.BookmarkList{}, err
	}
	return out, nil
}

// ActivitySummary returns the backend's activity summary for the user.
func (c *Client) ActivitySummary(ctx context.Context, userID string) (core.ActivitySummary, error) {
	var out core.ActivitySummary
	if err := c.get(ctx, pathf("/users/%s/activity-summary", userID), nil, &out); err != nil {
		return core.ActivitySummary{}, err
	}
	return out, nil
}

// CreateInteraction records a new interaction. The backend rejects a second
// record of the same kind for the same project with 400.
func (c *Client) CreateInteraction(ctx context.Context, userID string, projectID int64, kind core.InteractionKind, rating *int) (core.CreatedInteraction, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("project_id", strconv.FormatInt(projectID, 10))
	q.Set("interaction_type", string(kind))
	if rating != nil {
		q.Set("rating", strconv.Itoa(*rating))
	}

	var out core.CreatedInteraction
	if err := c.do(ctx, http.MethodPost, "/interactions", q, nil, &out); err != nil {
		return core.CreatedInteraction{}, err
	}
	return out, nil
}

// UpdateRating sets or clears the rating on an existing record. A nil rating
// is sent as the literal "null".
func (c *Client) UpdateRating(ctx context.Context, interactionID int64, rating *int) error {
	q := url.Values{}
	if rating == nil {
		q.Set("rating", "null")
	} else {
		q.Set("rating", strconv.Itoa(*rating))
	}
	return c.do(ctx, http.MethodPut, pathf("/interactions/%d", interactionID), q, nil, nil)
}

// DeleteInteraction removes a record. A record that is already gone counts
// as deleted.
func (c *Client) DeleteInteraction(ctx context.Context, interactionID int64) error {
	err := c.do(ctx, http.MethodDelete, pathf("/interactions/%d", interactionID), nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
