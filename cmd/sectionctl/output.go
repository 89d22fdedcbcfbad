package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iota-uz/section-editor/modules/section/presentation/mappers"
	"github.com/iota-uz/section-editor/modules/section/presentation/viewmodels"
	"github.com/iota-uz/section-editor/modules/section/services"
)

type sectionOutput struct {
	Command      string              `json:"command"`
	Result       string              `json:"result,omitempty"`
	Section      viewmodels.Section  `json:"section"`
	Tags         []string            `json:"tags"`
	Changes      []viewmodels.Change `json:"changes,omitempty"`
	FieldErrors  map[string]string   `json:"fieldErrors,omitempty"`
	GlobalErrors []string            `json:"globalErrors,omitempty"`
	Redirect     string              `json:"redirect,omitempty"`
}

func newSectionOutput(command string, st services.State) sectionOutput {
	out := sectionOutput{
		Command:      command,
		Section:      mappers.SectionToViewModel(st.WorkingCopy),
		Tags:         []string{},
		FieldErrors:  st.FieldErrors.ToMap(),
		GlobalErrors: st.GlobalErrors,
	}
	for _, t := range st.SelectedTags {
		out.Tags = append(out.Tags, t.Name)
	}
	if changes, err := mappers.PendingChanges(st); err == nil {
		out.Changes = changes
	}
	return out
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput prints v as indented JSON or as YAML with the same keys.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
