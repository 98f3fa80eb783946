package store

import (
	"slices"
	"time"
)

// State is the position of a video in the short-making pipeline.
type State string

const (
	StateCreated     State = "created"
	StateTrimmed     State = "trimmed"
	StateReformatted State = "reformatted"
	StateFiltered    State = "filtered"
	StateCaptioned   State = "captioned"
)

var transitions = map[State][]State{
	StateCreated:     {StateTrimmed},
	StateTrimmed:     {StateReformatted},
	StateReformatted: {StateFiltered, StateCaptioned},
	StateFiltered:    {StateFiltered, StateCaptioned},
	StateCaptioned:   nil,
}

// CanTransition reports whether a video in s may move to next. Filtering
// may repeat; captioning is terminal.
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further stage may run.
func (s State) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Video is the lineage record for one short. Paths are relative to the
// storage root.
type Video struct {
	ID          int64
	SourceID    string
	Title       string
	Stem        string
	SourcePath  string
	BasePath    string
	CurrentPath string
	State       State
	FilterName  string
	Captioned   bool
	StartSecond int
	LastError   string
	ErrorKind   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayTitle prefers the title and falls back to the source id.
func (v Video) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	return v.SourceID
}
