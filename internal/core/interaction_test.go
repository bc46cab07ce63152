package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractionKind(t *testing.T) {
	t.Run("accepts all kinds", func(t *testing.T) {
		for _, k := range AllKinds() {
			got, err := ParseInteractionKind(string(k))
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
	})

	t.Run("normalizes case and spaces", func(t *testing.T) {
		got, err := ParseInteractionKind("  Bookmarked ")
		require.NoError(t, err)
		assert.Equal(t, KindBookmarked, got)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := ParseInteractionKind("liked")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "liked")
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseInteractionKind("")
		assert.Error(t, err)
	})
}

func TestInteractionKind_Label(t *testing.T) {
	assert.Equal(t, "Bookmark Project", KindBookmarked.Label(false))
	assert.Equal(t, "Bookmarked", KindBookmarked.Label(true))
	assert.Equal(t, "Marked as Viewed", KindViewed.Label(true))
	assert.Equal(t, "Mark as Completed", KindCompleted.Label(false))
	assert.Equal(t, "rated", InteractionKind("rated").Label(true))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
	assert.False(t, ValidRating(-1))
}

func TestInteractionList_Decode(t *testing.T) {
	body := `{
		"interactions": [
			{"id": 7, "project_id": 3, "project_title": "CLI tool", "interaction_type": "bookmarked",
			 "rating": null, "timestamp": "2024-05-01T10:00:00Z", "topics": ["go"], "repo_url": null,
			 "estimated_hours": 12, "source": "github"},
			{"id": 8, "project_id": 4, "interaction_type": "viewed", "rating": 4,
			 "timestamp": "2024-05-02T10:00:00Z"},
			{"id": 9, "project_id": 3, "interaction_type": "started", "rating": 0,
			 "timestamp": "2024-05-03T10:00:00Z"}
		],
		"total": 3, "limit": 50, "offset": 0
	}`

	var list InteractionList
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Interactions, 3)

	t.Run("decodes optional fields", func(t *testing.T) {
		first := list.Interactions[0]
		assert.Equal(t, int64(7), first.ID)
		assert.Equal(t, KindBookmarked, first.Kind)
		assert.Nil(t, first.Rating)
		assert.Nil(t, first.RepoURL)
		require.NotNil(t, first.EstimatedHours)
		assert.Equal(t, 12, *first.EstimatedHours)
		assert.Equal(t, 2024, first.CreatedAt.Year())
	})

	t.Run("has rating", func(t *testing.T) {
		assert.False(t, list.Interactions[0].HasRating())
		assert.True(t, list.Interactions[1].HasRating())
		assert.False(t, list.Interactions[2].HasRating())
	})

	t.Run("filters by project", func(t *testing.T) {
		recs := list.ForProject(3)
		require.Len(t, recs, 2)
		assert.Equal(t, int64(7), recs[0].ID)
		assert.Equal(t, int64(9), recs[1].ID)
		assert.Empty(t, list.ForProject(99))
	})
}

func TestInteractionStats_Decode(t *testing.T) {
	t.Run("null average", func(t *testing.T) {
		var s InteractionStats
		require.NoError(t, json.Unmarshal([]byte(`{"total_interactions":0,"by_type":{},"average_rating":null,"recent_activity_30d":0}`), &s))
		assert.Nil(t, s.AverageRating)
		assert.Equal(t, 0, s.Count(KindViewed))
	})

	t.Run("counts by type", func(t *testing.T) {
		var s InteractionStats
		require.NoError(t, json.Unmarshal([]byte(`{"total_interactions":5,"by_type":{"viewed":3,"completed":2},"average_rating":4.5,"recent_activity_30d":2}`), &s))
		assert.Equal(t, 3, s.Count(KindViewed))
		assert.Equal(t, 2, s.Count(KindCompleted))
		require.NotNil(t, s.AverageRating)
		assert.InDelta(t, 4.5, *s.AverageRating, 0.001)
	})
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		hour int
	}{
		{"rfc3339", `"2024-05-01T10:00:00Z"`, 10},
		{"offset with micros", `"2024-05-01T10:00:00.123456+00:00"`, 10},
		{"naive", `"2024-05-01T11:30:00"`, 11},
		{"naive with micros", `"2024-05-01T12:30:00.5"`, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.Equal(t, tt.hour, ts.Hour())
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	})

	t.Run("empty is zero", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
		assert.True(t, ts.IsZero())
	})
}
