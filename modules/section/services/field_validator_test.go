package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

func TestFieldValidator_Name(t *testing.T) {
	v := NewFieldValidator(DefaultMessages())
	tooShort := DefaultMessages().NameTooShort

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: tooShort},
		{name: "one char", value: "a", want: tooShort},
		{name: "two chars", value: "ab", want: tooShort},
		{name: "two chars in markup", value: "<p>ab</p>", want: tooShort},
		{name: "markup only", value: "<p><br></p>", want: tooShort},
		{name: "padded two chars", value: "  ab  ", want: ""},
		{name: "two chars then open bracket", value: "ab<c", want: ""},
		{name: "spaces in markup", value: "<p>  </p>", want: tooShort},
		{name: "two multibyte chars", value: "数据", want: tooShort},
		{name: "three chars", value: "abc", want: ""},
		{name: "three chars in markup", value: "<strong>abc</strong>", want: ""},
		{name: "sentence", value: "New Section Name", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, v.Validate(section.FieldName, tc.value))
		})
	}
}

func TestFieldValidator_OtherFieldsHaveNoRule(t *testing.T) {
	v := NewFieldValidator(DefaultMessages())
	for _, f := range section.EditableFields {
		if f == section.FieldName {
			continue
		}
		require.Empty(t, v.Validate(f, ""), f)
		require.Empty(t, v.Validate(f, strings.Repeat("x", 5000)), f)
	}
}

func TestFieldValidator_ValidateAll(t *testing.T) {
	v := NewFieldValidator(DefaultMessages())

	errs := v.ValidateAll(section.Section{Name: "ab"})
	require.True(t, errs.HasAny())
	require.Len(t, errs, len(section.EditableFields))
	require.Equal(t, []string{DefaultMessages().NameTooShort}, errs.Messages())

	errs = v.ValidateAll(section.Section{Name: "Data Collection"})
	require.False(t, errs.HasAny())
	require.Empty(t, errs.Messages())
}
