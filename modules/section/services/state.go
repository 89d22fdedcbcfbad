package services

import (
	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSubmitting
	PhaseDeleting
	PhaseRedirecting
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDeleting:
		return "deleting"
	case PhaseRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Operation is the remote mutation currently in flight. Save and delete
// share it, so at most one of them runs at a time.
type Operation int

const (
	OperationNone Operation = iota
	OperationSaving
	OperationDeleting
)

func (o Operation) String() string {
	switch o {
	case OperationNone:
		return "none"
	case OperationSaving:
		return "saving"
	case OperationDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

type DeleteDialog struct {
	Open     bool
	InFlight bool
}

// State is a point-in-time copy of a session. Nothing in it aliases the
// session's own data.
type State struct {
	SectionID    int64
	TemplateID   int64
	Phase        Phase
	Operation    Operation
	Snapshot     section.Section
	WorkingCopy  section.Section
	Dirty        bool
	Catalog      []section.Tag
	SelectedTags []section.Tag
	FieldErrors  FieldErrors
	GlobalErrors []string
	DeleteDialog DeleteDialog
	// ErrorsRevision grows each time GlobalErrors is set to a non-empty list.
	ErrorsRevision uint64
}

// ScrollToErrors reports whether the error region has to be brought into
// view after a render that showed revision prev.
func (s State) ScrollToErrors(prev uint64) bool {
	return s.ErrorsRevision != prev && len(s.GlobalErrors) > 0
}

func (s State) IsSelected(id int64) bool {
	for _, t := range s.SelectedTags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Interactive reports whether the edit form accepts input.
func (s State) Interactive() bool {
	return s.Phase != PhaseLoading && s.Phase != PhaseRedirecting
}
