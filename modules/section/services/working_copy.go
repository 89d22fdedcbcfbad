package services

import (
	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

type ActionKind int

const (
	ActionLoad ActionKind = iota
	ActionChange
	ActionToggleTag
	ActionSaveSucceeded
)

func (k ActionKind) String() string {
	switch k {
	case ActionLoad:
		return "load"
	case ActionChange:
		return "change"
	case ActionToggleTag:
		return "toggleTag"
	case ActionSaveSucceeded:
		return "saveSucceeded"
	default:
		return "unknown"
	}
}

// Action is one entry of the edit log. Only the member matching Kind is set.
type Action struct {
	Kind     ActionKind
	Snapshot section.Section
	Patch    section.Patch
	Tag      section.Tag
}

// Reduce applies a to the working copy.
func Reduce(wc section.Section, a Action) section.Section {
	switch a.Kind {
	case ActionLoad:
		return a.Snapshot.Clone()
	case ActionChange:
		return a.Patch.Apply(wc)
	case ActionToggleTag, ActionSaveSucceeded:
	}
	return wc
}

// Dirty reports whether log holds an edit that no load or successful save
// has superseded.
func Dirty(log []Action) bool {
	dirty := false
	for _, a := range log {
		switch a.Kind {
		case ActionLoad, ActionSaveSucceeded:
			dirty = false
		case ActionChange, ActionToggleTag:
			dirty = true
		}
	}
	return dirty
}

// WorkingCopyStore holds the operator's edited copy of the section together
// with the action log its dirty flag is projected from. Not safe for
// concurrent use; the owning Session serializes access.
type WorkingCopyStore struct {
	value section.Section
	log   []Action
}

func NewWorkingCopyStore() *WorkingCopyStore {
	return &WorkingCopyStore{}
}

func (s *WorkingCopyStore) Value() section.Section {
	return s.value.Clone()
}

func (s *WorkingCopyStore) Dirty() bool {
	return Dirty(s.log)
}

// Dispatch reduces a into the store. Load and SaveSucceeded reset the dirty
// projection, so everything logged before them is dropped.
func (s *WorkingCopyStore) Dispatch(a Action) {
	s.value = Reduce(s.value, a)
	switch a.Kind {
	case ActionLoad, ActionSaveSucceeded:
		s.log = []Action{{Kind: a.Kind}}
	case ActionChange, ActionToggleTag:
		s.log = append(s.log, a)
	}
}

// Load replaces the working copy wholesale without dirtying it.
func (s *WorkingCopyStore) Load(snapshot section.Section) {
	s.Dispatch(Action{Kind: ActionLoad, Snapshot: snapshot})
}

// Change merges p into the working copy and dirties it.
func (s *WorkingCopyStore) Change(p section.Patch) section.Section {
	s.Dispatch(Action{Kind: ActionChange, Patch: p})
	return s.Value()
}

func (s *WorkingCopyStore) MarkSaved() {
	s.Dispatch(Action{Kind: ActionSaveSucceeded})
}
