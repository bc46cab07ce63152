package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSkill_UnmarshalJSON(t *testing.T) {
	t.Run("stringified fields", func(t *testing.T) {
		var s ProfileSkill
		require.NoError(t, json.Unmarshal([]byte(`{"skill_id":"5","name":"Go","proficiency":"4"}`), &s))
		assert.Equal(t, ProfileSkill{SkillID: 5, Name: "Go", Proficiency: 4}, s)
	})

	t.Run("numeric fields", func(t *testing.T) {
		var s ProfileSkill
		require.NoError(t, json.Unmarshal([]byte(`{"skill_id":1,"proficiency":2}`), &s))
		assert.Equal(t, 1, s.SkillID)
		assert.Equal(t, 2, s.Proficiency)
	})

	t.Run("rejects non numeric", func(t *testing.T) {
		var s ProfileSkill
		assert.Error(t, json.Unmarshal([]byte(`{"skill_id":"go","proficiency":2}`), &s))
	})
}

func TestProfile_Validate(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		p := Profile{SkillLevel: LevelAdvanced, Skills: []ProfileSkill{{SkillID: 1, Proficiency: 5}}}
		assert.NoError(t, p.Validate())
	})

	t.Run("unknown skill", func(t *testing.T) {
		p := Profile{Skills: []ProfileSkill{{SkillID: 27, Proficiency: 3}}}
		assert.Error(t, p.Validate())
	})

	t.Run("proficiency out of range", func(t *testing.T) {
		p := Profile{Skills: []ProfileSkill{{SkillID: 2, Proficiency: 6}}}
		assert.Error(t, p.Validate())
	})

	t.Run("duplicate skill", func(t *testing.T) {
		p := Profile{Skills: []ProfileSkill{{SkillID: 2, Proficiency: 1}, {SkillID: 2, Proficiency: 2}}}
		assert.Error(t, p.Validate())
	})

	t.Run("bad level", func(t *testing.T) {
		p := Profile{SkillLevel: "guru"}
		assert.Error(t, p.Validate())
	})
}

func TestSkillCatalog(t *testing.T) {
	require.Len(t, SkillCatalog, 26)
	for i, s := range SkillCatalog {
		assert.Equal(t, i+1, s.ID)
	}

	s, ok := FindSkill("machine learning")
	require.True(t, ok)
	assert.Equal(t, 17, s.ID)

	_, ok = LookupSkill(0)
	assert.False(t, ok)
}

func TestParseSkillLevel(t *testing.T) {
	l, err := ParseSkillLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, l)

	l, err = ParseSkillLevel("Beginner")
	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, l)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"web", "ml"}, SplitList(" web, ,ml ,"))
	assert.Nil(t, SplitList(""))
}

func TestDisplayName(t *testing.T) {
	u := &User{ID: "u1", Email: "ada@example.com"}
	assert.Equal(t, "Ada Lovelace", DisplayName(u, &BasicProfile{FullName: "Ada Lovelace"}))
	assert.Equal(t, "ada@example.com", DisplayName(u, &BasicProfile{}))
	assert.Equal(t, "ada@example.com", DisplayName(u, nil))
	assert.Equal(t, "User", DisplayName(&User{ID: "u2"}, nil))
	assert.Equal(t, "User", DisplayName(nil, nil))
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, Session{}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(10 * time.Second)}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Hour)}.Expired(now))
}

func TestParseProfileSkills(t *testing.T) {
	skills, err := ParseProfileSkills([]string{"python=4", " Machine Learning = 2 ", "Go"})
	require.NoError(t, err)
	assert.Equal(t, []ProfileSkill{
		{SkillID: 1, Name: "Python", Proficiency: 4},
		{SkillID: 17, Name: "Machine Learning", Proficiency: 2},
		{SkillID: 5, Name: "Go", Proficiency: 3},
	}, skills)
	assert.Equal(t, "Python=4, Machine Learning=2, Go=3", FormatProfileSkills(skills))

	_, err = ParseProfileSkills([]string{"Cobol=3"})
	assert.ErrorContains(t, err, "unknown skill")
	_, err = ParseProfileSkills([]string{"Python=6"})
	assert.ErrorContains(t, err, "between 1 and 5")
}
