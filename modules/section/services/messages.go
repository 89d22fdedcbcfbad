package services

import (
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/section-editor/pkg/intl"
)

// Messages holds the user-facing strings a session emits, resolved once for
// the operator's locale when the session opens.
type Messages struct {
	NameTooShort   string
	UpdateFailed   string
	DeleteFailed   string
	LoadFailed     string
	Updated        string
	Removed        string
	UnsavedChanges string
	DeleteInFlight string
	DeleteConfirm  string
}

const (
	msgNameTooShort   = "Sections.Errors.NameTooShort"
	msgUpdateFailed   = "Sections.Errors.UpdateFailed"
	msgDeleteFailed   = "Sections.Errors.DeleteFailed"
	msgLoadFailed     = "Sections.Errors.LoadFailed"
	msgUpdated        = "Sections.Messages.Updated"
	msgRemoved        = "Sections.Messages.Removed"
	msgUnsavedChanges = "Sections.Messages.UnsavedChanges"
	msgDeleteInFlight = "Sections.Delete.InFlight"
	msgDeleteConfirm  = "Sections.Delete.Confirm"
)

func DefaultMessages() Messages {
	return NewMessages(nil)
}

// NewMessages localizes every message with l; a nil localizer yields the
// English defaults.
func NewMessages(l *i18n.Localizer) Messages {
	return Messages{
		NameTooShort:   intl.Localize(l, msgNameTooShort, "Name must be at least 3 characters long"),
		UpdateFailed:   intl.Localize(l, msgUpdateFailed, "Something went wrong while updating the section. Please try again."),
		DeleteFailed:   intl.Localize(l, msgDeleteFailed, "Something went wrong while removing the section. Please try again."),
		LoadFailed:     intl.Localize(l, msgLoadFailed, "The section could not be loaded."),
		Updated:        intl.Localize(l, msgUpdated, "Section updated"),
		Removed:        intl.Localize(l, msgRemoved, "Section removed"),
		UnsavedChanges: intl.Localize(l, msgUnsavedChanges, "You have unsaved changes. Are you sure you want to leave?"),
		DeleteInFlight: intl.Localize(l, msgDeleteInFlight, "Deleting..."),
		DeleteConfirm:  intl.Localize(l, msgDeleteConfirm, "Delete section"),
	}
}
