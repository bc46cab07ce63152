package components

import (
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// Panels never call the backend. They emit these messages and the main
// view runs the work.

// SearchRequestMsg asks for a project search.
type SearchRequestMsg struct {
	Query core.SearchQuery
}

// RecentSearchesMsg asks for the recorded searches.
type RecentSearchesMsg struct{}

// OpenProjectMsg asks to show a project.
type OpenProjectMsg struct {
	ID int64
}

// ToggleInteractionMsg asks to flip an interaction flag of the open project.
type ToggleInteractionMsg struct {
	Kind core.InteractionKind
}

// RateProjectMsg asks to rate the open project.
type RateProjectMsg struct {
	Stars int
}

// LoadHistoryMsg asks for the interaction history, optionally of one kind.
type LoadHistoryMsg struct {
	Kind core.InteractionKind
}

// DeleteInteractionMsg asks to delete an interaction record.
type DeleteInteractionMsg struct {
	ID int64
}

// LoadProfileMsg asks for the profiles.
type LoadProfileMsg struct{}

// EditProfileMsg opens the recommendation profile form.
type EditProfileMsg struct{}

// EditBasicProfileMsg opens the personal details form.
type EditBasicProfileMsg struct{}

// BackMsg leaves the current screen.
type BackMsg struct{}

// CopyMsg asks to put Content on the clipboard.
type CopyMsg struct {
	Content string
	Label   string
}
