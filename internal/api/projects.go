package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// SearchProjects runs a semantic or keyword search.
func (c *Client) SearchProjects(ctx context.Context, q core.SearchQuery) (core.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return core.SearchResult{}, err
	}
	var out core.SearchResult
	if err := c.get(ctx, "/projects/search", q.Values(), &out); err != nil {
		return core.SearchResult{}, err
	}
	return out, nil
}

// KaggleCompetitions searches Kaggle competitions by keyword.
func (c *Client) KaggleCompetitions(ctx context.Context, text string, limit int) (core.SearchResult, error) {
	return c.SearchProjects(ctx, core.SearchQuery{Text: text, Source: core.SourceKaggleCompetition, Limit: limit})
}

// KaggleDatasets searches Kaggle datasets by keyword.
func (c *Client) KaggleDatasets(ctx context.Context, text string, limit int) (core.SearchResult, error) {
	return c.SearchProjects(ctx, core.SearchQuery{Text: text, Source: core.SourceKaggleDataset, Limit: limit})
}

// GetProject loads a project. When userID is set the backend adds a match
// analysis against that user's profile.
func (c *Client) GetProject(ctx context.Context, projectID int64, userID string) (core.ProjectDetail, error) {
	var q url.Values
	if userID != "" {
		q = url.Values{"user_id": {userID}}
	}
	var out core.ProjectDetail
	if err := c.get(ctx, fmt.Sprintf("/projects/%d", projectID), q, &out); err != nil {
		return core.ProjectDetail{}, err
	}
	return out, nil
}

// Sources returns the project source catalog with counts.
func (c *Client) Sources(ctx context.Context) (core.SourceCatalog, error) {
	var out core.SourceCatalog
	if err := c.get(ctx, "/sources", nil, &out); err != nil {
		return core.SourceCatalog{}, err
	}
	return out, nil
}
