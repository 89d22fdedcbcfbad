package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

func TestClassifyUpdate_TransportError(t *testing.T) {
	cause := errors.New("connection reset")
	out := ClassifyUpdate(section.UpdateResult{Errors: map[string]string{"name": "ignored"}}, cause)
	require.Equal(t, OutcomeTransportError, out.Kind)
	require.ErrorIs(t, out.Err, cause)
}

func TestClassifyUpdate_Success(t *testing.T) {
	echoed := &section.Section{ID: 123}
	cases := []struct {
		name string
		errs map[string]string
	}{
		{name: "no errors object", errs: nil},
		{name: "empty object", errs: map[string]string{}},
		{name: "all empty", errs: map[string]string{"name": "", "guidance": "", "general": ""}},
		{name: "placeholder only", errs: map[string]string{"__typename": section.ErrorsTypename}},
		{name: "placeholder and empties", errs: map[string]string{
			"__typename": section.ErrorsTypename,
			"name":       "",
			"general":    section.ErrorsTypename,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ClassifyUpdate(section.UpdateResult{Section: echoed, Errors: tc.errs}, nil)
			require.Equal(t, OutcomeSuccess, out.Kind)
			require.Same(t, echoed, out.Section)
		})
	}
}

func TestClassifyUpdate_FieldErrors(t *testing.T) {
	out := ClassifyUpdate(section.UpdateResult{Errors: map[string]string{
		"__typename":   section.ErrorsTypename,
		"name":         "Name already taken",
		"displayOrder": section.ErrorsTypename,
		"general":      "Please fix the highlighted fields",
	}}, nil)

	require.Equal(t, OutcomeFieldErrors, out.Kind)
	require.Equal(t, "Name already taken", out.FieldErrors[section.FieldName])
	require.Empty(t, out.FieldErrors[section.FieldDisplayOrder])
	require.Empty(t, out.FieldErrors[section.FieldGuidance])
	require.Len(t, out.FieldErrors, len(section.EditableFields))
	require.Equal(t, "Please fix the highlighted fields", out.General)
}

func TestClassifyUpdate_GeneralOnly(t *testing.T) {
	out := ClassifyUpdate(section.UpdateResult{Errors: map[string]string{"general": "Template is locked"}}, nil)
	require.Equal(t, OutcomeFieldErrors, out.Kind)
	require.False(t, out.FieldErrors.HasAny())
	require.Equal(t, "Template is locked", out.General)
}
