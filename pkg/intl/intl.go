package intl

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Language is a UI language the editor ships messages for.
type Language struct {
	Code string
	Name string
	Tag  language.Tag
}

var known = []Language{
	{Code: "en", Name: "English", Tag: language.English},
	{Code: "zh", Name: "中文", Tag: language.Chinese},
}

// Languages returns the known languages named in codes, in that order and
// without duplicates. Unknown codes are skipped. No codes means all.
func Languages(codes []string) []Language {
	if len(codes) == 0 {
		return slices.Clone(known)
	}
	out := make([]Language, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if slices.ContainsFunc(out, func(l Language) bool { return l.Code == code }) {
			continue
		}
		if idx := slices.IndexFunc(known, func(l Language) bool { return l.Code == code }); idx >= 0 {
			out = append(out, known[idx])
		}
	}
	return out
}

// Tags lists the tags of langs. NewLocalizer falls back to the first one.
func Tags(langs []Language) []language.Tag {
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tags = append(tags, l.Tag)
	}
	return tags
}
