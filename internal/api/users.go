package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// NewUser registers the backend user row for a freshly signed up account.
type NewUser struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// CreateUser registers the user. An existing user is not an error.
func (c *Client) CreateUser(ctx context.Context, u NewUser) error {
	if u.UserID == "" || u.Email == "" {
		return errors.New("user id and email are required")
	}
	return c.do(ctx, http.MethodPost, "/users/create", nil, u, nil)
}

// GetProfile loads the recommendation profile. A missing profile is reported
// as ErrNotFound.
func (c *Client) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var out core.Profile
	if err := c.get(ctx, pathf("/users/%s/profile", userID), nil, &out); err != nil {
		return core.Profile{}, err
	}
	return out, nil
}

type profilePayload struct {
	SkillLevel            core.SkillLevel `json:"skill_level"`
	Interests             []string        `json:"interests"`
	Bio                   string          `json:"bio"`
	GitHubUsername        string          `json:"github_username"`
	PreferredProjectTypes []string        `json:"preferred_project_types"`
	Skills                []skillPayload  `json:"skills"`
}

type skillPayload struct {
	SkillID     int `json:"skill_id"`
	Proficiency int `json:"proficiency"`
}

// SaveProfile creates or replaces the recommendation profile, including the
// full skill list.
func (c *Client) SaveProfile(ctx context.Context, userID string, p core.Profile) error {
	if p.SkillLevel == "" {
		p.SkillLevel = core.LevelIntermediate
	}
	if err := p.Validate(); err != nil {
		return err
	}

	payload := profilePayload{
		SkillLevel:            p.SkillLevel,
		Interests:             nonNil(p.Interests),
		Bio:                   p.Bio,
		GitHubUsername:        p.GitHubUsername,
		PreferredProjectTypes: nonNil(p.PreferredProjectTypes),
		Skills:                make([]skillPayload, 0, len(p.Skills)),
	}
	for _, s := range p.Skills {
		payload.Skills = append(payload.Skills, skillPayload{SkillID: s.SkillID, Proficiency: s.Proficiency})
	}

	return c.do(ctx, http.MethodPost, pathf("/users/%s/profile", userID), nil, payload, nil)
}

// GetBasicProfile loads the user's personal details.
func (c *Client) GetBasicProfile(ctx context.Context, userID string) (core.BasicProfile, error) {
	var out core.BasicProfile
	if err := c.get(ctx, pathf("/users/%s/basic-profile", userID), nil, &out); err != nil {
		return core.BasicProfile{}, err
	}
	return out, nil
}

// SaveBasicProfile updates the user's personal details. Full name and
// username are required.
func (c *Client) SaveBasicProfile(ctx context.Context, userID string, p core.BasicProfile) error {
	if p.FullName == "" || p.Username == "" {
		return errors.New("full name and username are required")
	}
	return c.do(ctx, http.MethodPost, pathf("/users/%s/basic-profile", userID), nil, p, nil)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
