package intl

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// LoadBundle returns an English-default bundle able to parse json and toml
// message files.
func LoadBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

// RegisterLocaleFiles parses every file of each embedded FS into bundle.
// File names must carry the language tag, e.g. en.json.
func RegisterLocaleFiles(bundle *i18n.Bundle, files ...*embed.FS) error {
	for _, localeFs := range files {
		paths, err := listFiles(localeFs, ".")
		if err != nil {
			return err
		}
		for _, path := range paths {
			data, err := localeFs.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read locale file %q: %w", path, err)
			}
			if _, err := bundle.ParseMessageFileBytes(data, filepath.Base(path)); err != nil {
				return fmt.Errorf("parse locale file %q: %w", path, err)
			}
		}
	}
	return nil
}

// NewLocalizer matches the Accept-Language header against the supported
// languages and returns a localizer for the best match. With no match at
// all the first supported language wins.
func NewLocalizer(bundle *i18n.Bundle, acceptLanguage string, whitelist []string) (*i18n.Localizer, language.Tag) {
	tags := Tags(Languages(whitelist))
	locale := language.English
	if len(tags) > 0 {
		candidates, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err != nil || len(candidates) == 0 {
			candidates = []language.Tag{language.English}
		}
		_, idx, conf := language.NewMatcher(tags).Match(candidates...)
		if conf == language.No {
			idx = 0
		}
		locale = tags[idx]
	}
	return i18n.NewLocalizer(bundle, locale.String()), locale
}

func listFiles(fsys fs.FS, dir string) ([]string, error) {
	var fileList []string

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			fileList = append(fileList, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error reading directory %q: %w", dir, err)
	}

	return fileList, nil
}
