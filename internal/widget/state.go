package widget

import "github.com/rabiazulfiqar1/Content-Based-RS/internal/core"

// FlagState mirrors one interaction kind. Active is true exactly when a
// backing record is tracked.
type FlagState struct {
	Active   bool
	RecordID *int64
}

// RatingState is the user's rating of the project and the record carrying it.
// Value 0 means no rating.
type RatingState struct {
	Value    int
	RecordID *int64
}

// State is the local mirror of a user's interactions with one project.
type State struct {
	Flags  map[core.InteractionKind]FlagState
	Rating RatingState
}

func newState() State {
	s := State{Flags: make(map[core.InteractionKind]FlagState, len(core.AllKinds()))}
	for _, k := range core.AllKinds() {
		s.Flags[k] = FlagState{}
	}
	return s
}

// Flag returns the state of kind k.
func (s State) Flag(k core.InteractionKind) FlagState {
	return s.Flags[k]
}

// Consistent reports whether every flag is active exactly when it has a
// record id.
func (s State) Consistent() bool {
	for _, k := range core.AllKinds() {
		f := s.Flags[k]
		if f.Active != (f.RecordID != nil) {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	out := State{Flags: make(map[core.InteractionKind]FlagState, len(s.Flags))}
	for k, f := range s.Flags {
		out.Flags[k] = FlagState{Active: f.Active, RecordID: copyID(f.RecordID)}
	}
	out.Rating = RatingState{Value: s.Rating.Value, RecordID: copyID(s.Rating.RecordID)}
	return out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func idPtr(id int64) *int64 {
	return &id
}

// Reduce folds the records of one project into a State. A record of a flag
// kind activates that flag; a record carrying a rating also sets the rating.
// Records of other projects are ignored.
func Reduce(projectID int64, records []core.InteractionRecord) State {
	s := newState()
	for _, r := range records {
		if r.ProjectID != projectID {
			continue
		}
		if r.Kind.Valid() {
			s.Flags[r.Kind] = FlagState{Active: true, RecordID: idPtr(r.ID)}
		}
		if r.Rating != nil {
			s.Rating = RatingState{Value: *r.Rating, RecordID: idPtr(r.ID)}
		}
	}
	return s
}
