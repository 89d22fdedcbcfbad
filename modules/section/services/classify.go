package services

import (
	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFieldErrors
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFieldErrors:
		return "fieldErrors"
	case OutcomeTransportError:
		return "transportError"
	default:
		return "unknown"
	}
}

// UpdateOutcome is the classified result of an update call. FieldErrors and
// General are set for OutcomeFieldErrors, Err for OutcomeTransportError and
// Section (when the API echoed it) for OutcomeSuccess.
type UpdateOutcome struct {
	Kind        OutcomeKind
	FieldErrors FieldErrors
	General     string
	Section     *section.Section
	Err         error
}

// ClassifyUpdate folds the three ways an update can end into one outcome.
// An errors object carrying only empty strings or the placeholder type name
// counts as success.
func ClassifyUpdate(res section.UpdateResult, err error) UpdateOutcome {
	if err != nil {
		return UpdateOutcome{Kind: OutcomeTransportError, Err: err}
	}
	if !hasActionableErrors(res.Errors) {
		return UpdateOutcome{Kind: OutcomeSuccess, Section: res.Section}
	}

	fieldErrs := NewFieldErrors()
	for _, f := range section.EditableFields {
		fieldErrs[f] = message(res.Errors[string(f)])
	}
	return UpdateOutcome{
		Kind:        OutcomeFieldErrors,
		FieldErrors: fieldErrs,
		General:     message(res.Errors[section.GeneralErrorKey]),
	}
}

func hasActionableErrors(errs map[string]string) bool {
	for _, v := range errs {
		if message(v) != "" {
			return true
		}
	}
	return false
}

func message(v string) string {
	if v == section.ErrorsTypename {
		return ""
	}
	return v
}
