package section

import (
	"fmt"
	"strconv"
)

// Tag is a category tag from the template catalog.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Section is the last known state of a template section as returned by the
// API. The same shape doubles as the operator's working copy.
type Section struct {
	ID           int64  `json:"id"`
	TemplateID   int64  `json:"templateId"`
	Name         string `json:"name"`
	Introduction string `json:"introduction"`
	Requirements string `json:"requirements"`
	Guidance     string `json:"guidance"`
	DisplayOrder int    `json:"displayOrder"`
	BestPractice bool   `json:"bestPractice"`
	Tags         []Tag  `json:"tags"`
}

// Clone returns a copy that shares no slices with s.
func (s Section) Clone() Section {
	out := s
	if s.Tags != nil {
		out.Tags = make([]Tag, len(s.Tags))
		copy(out.Tags, s.Tags)
	}
	return out
}

func (s Section) TagIDs() []int64 {
	ids := make([]int64, 0, len(s.Tags))
	for _, t := range s.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func (s Section) IsZero() bool { return s.ID == 0 }

// Value returns the form representation of field f.
func (s Section) Value(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldIntroduction:
		return s.Introduction
	case FieldRequirements:
		return s.Requirements
	case FieldGuidance:
		return s.Guidance
	case FieldDisplayOrder:
		return strconv.Itoa(s.DisplayOrder)
	case FieldBestPractice:
		return strconv.FormatBool(s.BestPractice)
	default:
		return ""
	}
}

func (s Section) String() string {
	return fmt.Sprintf("section %d (template %d)", s.ID, s.TemplateID)
}
