package services

import (
	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/pkg/markup"
)

// nameRule applies to the name after markup is stripped.
const nameRule = "required,min=3"

// FieldValidator checks the working copy before it is sent to the API. It
// runs only on submit.
type FieldValidator struct {
	validate *validator.Validate
	messages Messages
}

func NewFieldValidator(messages Messages) *FieldValidator {
	return &FieldValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		messages: messages,
	}
}

// Validate returns the message for value in field f, or "" when it passes.
func (v *FieldValidator) Validate(f section.Field, value string) string {
	switch f {
	case section.FieldName:
		if err := v.validate.Var(markup.Strip(value), nameRule); err != nil {
			return v.messages.NameTooShort
		}
	case section.FieldIntroduction,
		section.FieldRequirements,
		section.FieldGuidance,
		section.FieldDisplayOrder,
		section.FieldBestPractice:
	}
	return ""
}

// ValidateAll runs Validate once per editable field of s.
func (v *FieldValidator) ValidateAll(s section.Section) FieldErrors {
	errs := NewFieldErrors()
	for _, f := range section.EditableFields {
		errs[f] = v.Validate(f, s.Value(f))
	}
	return errs
}
