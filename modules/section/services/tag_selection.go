package services

import (
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

// TagSelection tracks which catalog tags are checked for the section.
// Tags are compared by id only.
type TagSelection struct {
	store    *WorkingCopyStore
	catalog  []section.Tag
	selected []section.Tag
}

func NewTagSelection(store *WorkingCopyStore) *TagSelection {
	return &TagSelection{store: store}
}

// Seed checks every snapshot tag that exists in catalog. Unknown tags are
// dropped.
func (t *TagSelection) Seed(snapshotTags, catalog []section.Tag) []section.Tag {
	t.catalog = slices.Clone(catalog)
	t.selected = make([]section.Tag, 0, len(snapshotTags))
	for _, tag := range snapshotTags {
		entry, ok := t.Lookup(tag.ID)
		if !ok || t.IsSelected(tag.ID) {
			continue
		}
		t.selected = append(t.selected, entry)
	}
	return t.Selected()
}

// Toggle removes tag when it is checked and appends it otherwise. Every
// toggle dirties the working copy.
func (t *TagSelection) Toggle(tag section.Tag) []section.Tag {
	if idx := t.index(tag.ID); idx >= 0 {
		t.selected = slices.Delete(t.selected, idx, idx+1)
	} else {
		t.selected = append(t.selected, tag)
	}
	t.store.Dispatch(Action{Kind: ActionToggleTag, Tag: tag})
	return t.Selected()
}

func (t *TagSelection) Lookup(id int64) (section.Tag, bool) {
	for _, tag := range t.catalog {
		if tag.ID == id {
			return tag, true
		}
	}
	return section.Tag{}, false
}

func (t *TagSelection) IsSelected(id int64) bool {
	return t.index(id) >= 0
}

func (t *TagSelection) Selected() []section.Tag {
	return slices.Clone(t.selected)
}

func (t *TagSelection) Catalog() []section.Tag {
	return slices.Clone(t.catalog)
}

// Search ranks catalog tags whose name fuzzily matches q, closest first.
// A blank query returns the whole catalog in its original order.
func (t *TagSelection) Search(q string) []section.Tag {
	q = strings.TrimSpace(q)
	if q == "" {
		return t.Catalog()
	}
	words := make([]string, len(t.catalog))
	for i, tag := range t.catalog {
		words[i] = tag.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	result := make([]section.Tag, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, t.catalog[rank.OriginalIndex])
	}
	return result
}

func (t *TagSelection) IDs() []int64 {
	ids := make([]int64, 0, len(t.selected))
	for _, tag := range t.selected {
		ids = append(ids, tag.ID)
	}
	return ids
}

func (t *TagSelection) index(id int64) int {
	return slices.IndexFunc(t.selected, func(tag section.Tag) bool { return tag.ID == id })
}
