package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SkillLevel is the self-declared experience level of a user.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

// ParseSkillLevel validates a level name. Empty yields the default.
func ParseSkillLevel(s string) (SkillLevel, error) {
	switch SkillLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return LevelIntermediate, nil
	case LevelBeginner:
		return LevelBeginner, nil
	case LevelIntermediate:
		return LevelIntermediate, nil
	case LevelAdvanced:
		return LevelAdvanced, nil
	}
	return "", fmt.Errorf("invalid skill level %q", s)
}

// Skill is an entry of the fixed skill catalog.
type Skill struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SkillCatalog is the set of skills a profile can reference.
var SkillCatalog = []Skill{
	{1, "Python", "language"},
	{2, "JavaScript", "language"},
	{3, "TypeScript", "language"},
	{4, "Java", "language"},
	{5, "Go", "language"},
	{6, "React", "framework"},
	{7, "Next.js", "framework"},
	{8, "Vue.js", "framework"},
	{9, "HTML/CSS", "framework"},
	{10, "Node.js", "framework"},
	{11, "FastAPI", "framework"},
	{12, "Django", "framework"},
	{13, "Flask", "framework"},
	{14, "PostgreSQL", "tool"},
	{15, "MongoDB", "tool"},
	{16, "Redis", "tool"},
	{17, "Machine Learning", "domain"},
	{18, "Deep Learning", "domain"},
	{19, "NLP", "domain"},
	{20, "Computer Vision", "domain"},
	{21, "Docker", "tool"},
	{22, "Kubernetes", "tool"},
	{23, "AWS", "tool"},
	{24, "Git", "tool"},
	{25, "API Development", "domain"},
	{26, "Web Development", "domain"},
}

// LookupSkill finds a catalog skill by id.
func LookupSkill(id int) (Skill, bool) {
	for _, s := range SkillCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// FindSkill finds a catalog skill by case-insensitive name.
func FindSkill(name string) (Skill, bool) {
	for _, s := range SkillCatalog {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Skill{}, false
}

// ProfileSkill is a skill held by the user with a proficiency of 1 to 5.
type ProfileSkill struct {
	SkillID     int    `json:"skill_id"`
	Name        string `json:"name,omitempty"`
	Proficiency int    `json:"proficiency"`
}

// UnmarshalJSON accepts skill_id and proficiency as numbers or numeric
// strings; the profile read endpoint returns both stringified.
func (s *ProfileSkill) UnmarshalJSON(data []byte) error {
	var raw struct {
		SkillID     json.RawMessage `json:"skill_id"`
		Name        string          `json:"name"`
		Proficiency json.RawMessage `json:"proficiency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := looseInt(raw.SkillID)
	if err != nil {
		return fmt.Errorf("skill_id: %w", err)
	}
	prof, err := looseInt(raw.Proficiency)
	if err != nil {
		return fmt.Errorf("proficiency: %w", err)
	}
	s.SkillID, s.Name, s.Proficiency = id, raw.Name, prof
	return nil
}

func looseInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(str))
}

// Profile is the recommendation profile used for match analysis.
type Profile struct {
	UserID                string         `json:"user_id,omitempty"`
	SkillLevel            SkillLevel     `json:"skill_level"`
	Interests             []string       `json:"interests"`
	Bio                   string         `json:"bio"`
	GitHubUsername        string         `json:"github_username"`
	PreferredProjectTypes []string       `json:"preferred_project_types"`
	Skills                []ProfileSkill `json:"skills"`
}

// Validate checks skill references and proficiency ranges.
func (p Profile) Validate() error {
	if _, err := ParseSkillLevel(string(p.SkillLevel)); err != nil {
		return err
	}
	seen := make(map[int]bool, len(p.Skills))
	for _, s := range p.Skills {
		if _, ok := LookupSkill(s.SkillID); !ok {
			return fmt.Errorf("unknown skill id %d", s.SkillID)
		}
		if s.Proficiency < 1 || s.Proficiency > 5 {
			return fmt.Errorf("proficiency for skill %d must be between 1 and 5", s.SkillID)
		}
		if seen[s.SkillID] {
			return fmt.Errorf("skill %d listed twice", s.SkillID)
		}
		seen[s.SkillID] = true
	}
	return nil
}

// SortedSkills returns the skills ordered by catalog id.
func (p Profile) SortedSkills() []ProfileSkill {
	out := append([]ProfileSkill(nil), p.Skills...)
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out
}

// BasicProfile holds the user's personal details.
type BasicProfile struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Organization string `json:"organization"`
	FieldOfStudy string `json:"field_of_study"`
	Phone        string `json:"phone"`
	ProfilePic   string `json:"profile_pic"`
}

// SplitList turns a comma separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseProfileSkills reads NAME=PROFICIENCY pairs such as "Python=4". A bare
// name gets proficiency 3.
func ParseProfileSkills(specs []string) ([]ProfileSkill, error) {
	out := make([]ProfileSkill, 0, len(specs))
	for _, spec := range specs {
		name, level, found := strings.Cut(spec, "=")
		skill, ok := FindSkill(name)
		if !ok {
			return nil, fmt.Errorf("unknown skill %q", strings.TrimSpace(name))
		}
		proficiency := 3
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(level))
			if err != nil || n < 1 || n > 5 {
				return nil, fmt.Errorf("proficiency for %s must be between 1 and 5", skill.Name)
			}
			proficiency = n
		}
		out = append(out, ProfileSkill{SkillID: skill.ID, Name: skill.Name, Proficiency: proficiency})
	}
	return out, nil
}

// FormatProfileSkills is the inverse of ParseProfileSkills.
func FormatProfileSkills(skills []ProfileSkill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		name := s.Name
		if skill, ok := LookupSkill(s.SkillID); ok {
			name = skill.Name
		}
		parts = append(parts, fmt.Sprintf("%s=%d", name, s.Proficiency))
	}
	return strings.Join(parts, ", ")
}
