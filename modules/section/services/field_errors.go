package services

import (
	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

// FieldErrors maps every editable field to its current message; an empty
// message means the field passed its last check.
type FieldErrors map[section.Field]string

func NewFieldErrors() FieldErrors {
	out := make(FieldErrors, len(section.EditableFields))
	for _, f := range section.EditableFields {
		out[f] = ""
	}
	return out
}

func (e FieldErrors) HasAny() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Messages returns the non-empty messages in form order.
func (e FieldErrors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, f := range section.EditableFields {
		if msg := e[f]; msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ToMap keys the messages by field name for rendering.
func (e FieldErrors) ToMap() map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[string(k)] = v
	}
	return out
}
