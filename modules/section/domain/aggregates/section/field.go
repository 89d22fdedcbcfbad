package section

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field names the editable attributes of a section. The values double as
// the keys of the API's errors object.
type Field string

const (
	FieldName         Field = "name"
	FieldIntroduction Field = "introduction"
	FieldRequirements Field = "requirements"
	FieldGuidance     Field = "guidance"
	FieldDisplayOrder Field = "displayOrder"
	FieldBestPractice Field = "bestPractice"
)

// EditableFields lists the fields in form order.
var EditableFields = []Field{
	FieldName,
	FieldIntroduction,
	FieldRequirements,
	FieldGuidance,
	FieldDisplayOrder,
	FieldBestPractice,
}

var (
	ErrUnknownField = errors.New("unknown section field")
	ErrInvalidValue = errors.New("invalid field value")
)

func ParseField(raw string) (Field, error) {
	raw = strings.TrimSpace(raw)
	for _, f := range EditableFields {
		if strings.EqualFold(string(f), raw) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// Patch is a partial change to a section; nil members are left untouched.
type Patch struct {
	Name         *string
	Introduction *string
	Requirements *string
	Guidance     *string
	DisplayOrder *int
	BestPractice *bool
}

// PatchFor builds a single-field patch from its form value.
func PatchFor(f Field, raw string) (Patch, error) {
	switch f {
	case FieldName:
		return Patch{Name: &raw}, nil
	case FieldIntroduction:
		return Patch{Introduction: &raw}, nil
	case FieldRequirements:
		return Patch{Requirements: &raw}, nil
	case FieldGuidance:
		return Patch{Guidance: &raw}, nil
	case FieldDisplayOrder:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Patch{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, raw)
		}
		return Patch{DisplayOrder: &n}, nil
	case FieldBestPractice:
		v := strings.TrimSpace(raw)
		if v == "" || v == "on" {
			b := v == "on"
			return Patch{BestPractice: &b}, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Patch{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, raw)
		}
		return Patch{BestPractice: &b}, nil
	default:
		return Patch{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Introduction == nil && p.Requirements == nil &&
		p.Guidance == nil && p.DisplayOrder == nil && p.BestPractice == nil
}

// Apply merges p into s.
func (p Patch) Apply(s Section) Section {
	out := s.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Introduction != nil {
		out.Introduction = *p.Introduction
	}
	if p.Requirements != nil {
		out.Requirements = *p.Requirements
	}
	if p.Guidance != nil {
		out.Guidance = *p.Guidance
	}
	if p.DisplayOrder != nil {
		out.DisplayOrder = *p.DisplayOrder
	}
	if p.BestPractice != nil {
		out.BestPractice = *p.BestPractice
	}
	return out
}
