package core

import (
	"fmt"
	"math"
	"strings"
)

// Difficulty of a project as classified by the backend.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists the filterable difficulties.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty accepts a difficulty name. Empty and "all" mean no filter.
func ParseDifficulty(s string) (Difficulty, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "all":
		return "", nil
	case string(DifficultyBeginner), string(DifficultyIntermediate), string(DifficultyAdvanced):
		return Difficulty(v), nil
	}
	return "", fmt.Errorf("invalid difficulty %q: must be beginner, intermediate or advanced", s)
}

// Source identifies where a project was harvested from.
type Source string

const (
	SourceGitHub            Source = "github"
	SourceKaggleCompetition Source = "kaggle_competition"
	SourceKaggleDataset     Source = "kaggle_dataset"
	SourceCurated           Source = "curated"
)

// Sources lists the filterable project sources.
func Sources() []Source {
	return []Source{SourceGitHub, SourceKaggleCompetition, SourceKaggleDataset, SourceCurated}
}

// ParseSource accepts a source name. Empty and "all" mean no filter.
func ParseSource(s string) (Source, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "all" {
		return "", nil
	}
	for _, src := range Sources() {
		if string(src) == v {
			return src, nil
		}
	}
	return "", fmt.Errorf("invalid source %q", s)
}

// IsKaggle reports whether the source is a Kaggle competition or dataset.
func (s Source) IsKaggle() bool {
	return s == SourceKaggleCompetition || s == SourceKaggleDataset
}

// DisplayName is the human label used in listings.
func (s Source) DisplayName() string {
	switch s {
	case SourceGitHub:
		return "GitHub"
	case SourceKaggleCompetition:
		return "Kaggle Competition"
	case SourceKaggleDataset:
		return "Kaggle Dataset"
	case SourceCurated:
		return "Curated"
	}
	return string(s)
}

// ProjectSummary is a project as returned by search.
type ProjectSummary struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RepoURL        *string  `json:"repo_url"`
	Difficulty     string   `json:"difficulty"`
	Topics         []string `json:"topics"`
	EstimatedHours *int     `json:"estimated_hours"`
	Source         Source   `json:"source"`
	Stars          *int     `json:"stars,omitempty"`
	Language       *string  `json:"language,omitempty"`
	Similarity     *float64 `json:"semantic_similarity,omitempty"`
}

// ProjectSkill is a skill attached to a project.
type ProjectSkill struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	IsRequired bool   `json:"is_required"`
}

// MatchAnalysis is computed by the backend for a signed-in user. Score and
// SemanticSimilarity are percentages.
type MatchAnalysis struct {
	Score              float64  `json:"score"`
	MatchingSkills     []string `json:"matching_skills"`
	MissingSkills      []string `json:"missing_skills"`
	Reason             string   `json:"reason"`
	SemanticSimilarity *float64 `json:"semantic_similarity"`
}

// ScorePercent returns the match score rounded to a whole percentage.
func (m MatchAnalysis) ScorePercent() int {
	return int(math.Round(m.Score))
}

// ProjectDetail is the full project returned by the detail endpoint.
type ProjectDetail struct {
	ProjectSummary
	Skills        []ProjectSkill `json:"skills"`
	MatchAnalysis *MatchAnalysis `json:"match_analysis"`
}

// RequiredSkills returns the skills marked required.
func (p ProjectDetail) RequiredSkills() []ProjectSkill {
	var out []ProjectSkill
	for _, s := range p.Skills {
		if s.IsRequired {
			out = append(out, s)
		}
	}
	return out
}

// OptionalSkills returns the skills not marked required.
func (p ProjectDetail) OptionalSkills() []ProjectSkill {
	var out []ProjectSkill
	for _, s := range p.Skills {
		if !s.IsRequired {
			out = append(out, s)
		}
	}
	return out
}

// SearchResult is the response of the search endpoint.
type SearchResult struct {
	Projects   []ProjectSummary  `json:"projects"`
	Count      int               `json:"count"`
	SearchType string            `json:"search_type"`
	Filters    map[string]string `json:"filters"`
}

// SourceInfo describes one entry of the source catalog.
type SourceInfo struct {
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// SourceCatalog is the response of the sources endpoint.
type SourceCatalog struct {
	Sources      map[string]SourceInfo `json:"sources"`
	TotalSources int                   `json:"total_sources"`
}
