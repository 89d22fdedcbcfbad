package mappers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/modules/section/presentation/viewmodels"
	"github.com/iota-uz/section-editor/modules/section/services"
)

// editableDoc is the JSON document pending changes and field patches are
// expressed against.
type editableDoc struct {
	Name         string  `json:"name"`
	Introduction string  `json:"introduction"`
	Requirements string  `json:"requirements"`
	Guidance     string  `json:"guidance"`
	DisplayOrder int     `json:"displayOrder"`
	BestPractice bool    `json:"bestPractice"`
	TagIDs       []int64 `json:"tagIds"`
}

func toEditableDoc(s section.Section, tagIDs []int64) editableDoc {
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	return editableDoc{
		Name:         s.Name,
		Introduction: s.Introduction,
		Requirements: s.Requirements,
		Guidance:     s.Guidance,
		DisplayOrder: s.DisplayOrder,
		BestPractice: s.BestPractice,
		TagIDs:       tagIDs,
	}
}

func SectionToViewModel(s section.Section) viewmodels.Section {
	return viewmodels.Section{
		ID:           strconv.FormatInt(s.ID, 10),
		TemplateID:   strconv.FormatInt(s.TemplateID, 10),
		Name:         s.Name,
		Introduction: s.Introduction,
		Requirements: s.Requirements,
		Guidance:     s.Guidance,
		DisplayOrder: s.DisplayOrder,
		BestPractice: s.BestPractice,
	}
}

func TagsToViewModels(sessionID uuid.UUID, st services.State) []viewmodels.Tag {
	return TagRowsToViewModels(sessionID, st.Catalog, st)
}

// TagRowsToViewModels renders the given subset of the catalog, checked
// against the session's selection.
func TagRowsToViewModels(sessionID uuid.UUID, tags []section.Tag, st services.State) []viewmodels.Tag {
	rows := make([]viewmodels.Tag, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, viewmodels.Tag{
			ID:          strconv.FormatInt(t.ID, 10),
			Name:        t.Name,
			Description: t.Description,
			Checked:     st.IsSelected(t.ID),
			ToggleURL:   fmt.Sprintf("/section-sessions/%s/tags/%d/toggle", sessionID, t.ID),
		})
	}
	return rows
}

// PendingChanges diffs the working copy and checked tags against the loaded
// section.
func PendingChanges(st services.State) ([]viewmodels.Change, error) {
	selected := make([]int64, 0, len(st.SelectedTags))
	for _, t := range st.SelectedTags {
		selected = append(selected, t.ID)
	}
	patch, err := jsondiff.Compare(
		toEditableDoc(st.Snapshot, st.Snapshot.TagIDs()),
		toEditableDoc(st.WorkingCopy, selected),
	)
	if err != nil {
		return nil, errors.Wrap(err, "diff working copy")
	}
	changes := make([]viewmodels.Change, 0, len(patch))
	for _, op := range patch {
		changes = append(changes, viewmodels.Change{
			Op:    op.Type,
			Path:  fmt.Sprint(op.Path),
			Value: op.Value,
		})
	}
	return changes, nil
}

func SessionToViewModel(sessionID uuid.UUID, st services.State, messages services.Messages) (*viewmodels.SectionSession, error) {
	vm := &viewmodels.SectionSession{
		SessionID:    sessionID.String(),
		Phase:        st.Phase.String(),
		Operation:    st.Operation.String(),
		Interactive:  st.Interactive(),
		Dirty:        st.Dirty,
		Section:      SectionToViewModel(st.WorkingCopy),
		Tags:         TagsToViewModels(sessionID, st),
		FieldErrors:  st.FieldErrors.ToMap(),
		GlobalErrors: st.GlobalErrors,
		DeleteDialog: viewmodels.DeleteDialog{
			Open:         st.DeleteDialog.Open,
			InFlight:     st.DeleteDialog.InFlight,
			ConfirmLabel: messages.DeleteConfirm,
		},
		Changes:      []viewmodels.Change{},
		EditPath:     section.EditPath(st.TemplateID, st.SectionID),
		TemplatePath: section.TemplatePath(st.TemplateID),
	}
	if vm.GlobalErrors == nil {
		vm.GlobalErrors = []string{}
	}
	if st.DeleteDialog.InFlight {
		vm.DeleteDialog.ConfirmLabel = messages.DeleteInFlight
	}
	if st.Phase == services.PhaseLoading {
		return vm, nil
	}
	changes, err := PendingChanges(st)
	if err != nil {
		return nil, err
	}
	vm.Changes = changes
	return vm, nil
}

func touchesTagIDs(op jsonpatch.Operation) bool {
	for _, read := range []func() (string, error){op.Path, op.From} {
		path, err := read()
		if err != nil {
			continue
		}
		if path == "/tagIds" || strings.HasPrefix(path, "/tagIds/") {
			return true
		}
	}
	return false
}

// FieldPatchFromJSONPatch applies an RFC 6902 document to the editable
// fields of wc and returns the resulting change as a section patch. Tag ids
// are not patchable this way; tags go through the toggle endpoint.
func FieldPatchFromJSONPatch(wc section.Section, raw []byte) (section.Patch, error) {
	ops, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return section.Patch{}, errors.Wrap(err, "decode json patch")
	}
	for _, op := range ops {
		if touchesTagIDs(op) {
			return section.Patch{}, errors.Wrap(section.ErrInvalidValue, "tag ids are changed through the tag toggle")
		}
	}
	before := toEditableDoc(wc, nil)
	doc, err := json.Marshal(before)
	if err != nil {
		return section.Patch{}, errors.Wrap(err, "marshal working copy")
	}
	patched, err := ops.Apply(doc)
	if err != nil {
		return section.Patch{}, errors.Wrap(err, "apply json patch")
	}
	var after editableDoc
	if err := json.Unmarshal(patched, &after); err != nil {
		return section.Patch{}, errors.Wrap(err, "decode patched document")
	}

	var p section.Patch
	if after.Name != before.Name {
		p.Name = &after.Name
	}
	if after.Introduction != before.Introduction {
		p.Introduction = &after.Introduction
	}
	if after.Requirements != before.Requirements {
		p.Requirements = &after.Requirements
	}
	if after.Guidance != before.Guidance {
		p.Guidance = &after.Guidance
	}
	if after.DisplayOrder != before.DisplayOrder {
		p.DisplayOrder = &after.DisplayOrder
	}
	if after.BestPractice != before.BestPractice {
		p.BestPractice = &after.BestPractice
	}
	return p, nil
}
