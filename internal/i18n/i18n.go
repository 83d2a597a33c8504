// Package i18n loads the localized reply catalog from YAML files.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a stored preference names a locale that is not loaded.
const DefaultLocale = "en-US"

// RequiredKeys lists every reply template a locale file must define.
// Loading fails fast when any locale is missing one.
var RequiredKeys = []string{
	"Start",
	"Info",
	"Info_Chat",
	"Status",
	"LanguageInfo",
	"LanguageInfo_Chat",
	"GetStatus",
	"GetStatus_Chat",
	"SetLanguage",
	"SetNsfwOn",
	"SetNsfwOn_Chat",
	"SetNsfwOff",
	"SetNsfwOff_Chat",
	"NsfwStatus",
	"NsfwStatus_Chat",
	"NsfwSettingException",
	"NsfwSettingException_Chat",
	"NsfwSettingException_NotEnoughRights_Chat",
	"UnknownCommand",
	"UnknownCommand_Chat",
	"ReturnPic",
	"ReturnPic_Chat",
	"ReturnPicBooru",
	"ReturnPicBooru_Chat",
	"LewdDetected",
	"LewdDetected_Chat",
	"OnSwitch",
	"OffSwitch",
	"Yes",
	"No",
}

// Catalog holds reply templates for every loaded locale.
type Catalog struct {
	locales map[string]map[string]string
}

// LoadFromDir reads every <locale>.yaml file in dir. The file name minus
// extension is the locale tag. Every locale must carry the full key set and
// DefaultLocale must be present.
func LoadFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir %s: %w", dir, err)
	}

	locales := make(map[string]map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		locale := strings.TrimSuffix(name, filepath.Ext(name))
		templates, err := parseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		locales[locale] = templates
	}

	if len(locales) == 0 {
		return nil, fmt.Errorf("i18n: no locale files found in %s", dir)
	}

	if _, ok := locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("i18n: default locale %q is missing", DefaultLocale)
	}

	catalog := &Catalog{locales: locales}
	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func parseFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read file %s: %w", path, err)
	}

	var templates map[string]string
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("i18n: parse file %s: %w", path, err)
	}

	return templates, nil
}

func (c *Catalog) validate() error {
	var problems []string

	for locale, templates := range c.locales {
		var missing []string
		for _, key := range RequiredKeys {
			if strings.TrimSpace(templates[key]) == "" {
				missing = append(missing, key)
			}
		}

		if len(missing) > 0 {
			sort.Strings(missing)
			problems = append(problems, fmt.Sprintf("%s: missing %s", locale, strings.Join(missing, ", ")))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("i18n: incomplete locales: %s", strings.Join(problems, "; "))
	}

	return nil
}

// Locales returns all loaded locale tags.
func (c *Catalog) Locales() []string {
	tags := make([]string, 0, len(c.locales))
	for tag := range c.locales {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Has reports whether the locale is loaded.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.locales[locale]
	return ok
}

// HasKey reports whether the default locale defines key. Validation keeps all
// locales aligned, so this answers for every loaded locale.
func (c *Catalog) HasKey(key string) bool {
	_, ok := c.locales[DefaultLocale][key]
	return ok
}

// T returns the raw template for key in locale, falling back to the default
// locale and finally to the key itself.
func (c *Catalog) T(locale, key string) string {
	if templates, ok := c.locales[locale]; ok {
		if value := templates[key]; value != "" {
			return value
		}
	}

	if value := c.locales[DefaultLocale][key]; value != "" {
		return value
	}

	return key
}

// Format renders the template for key in locale with args applied.
func (c *Catalog) Format(locale, key string, args ...any) string {
	template := c.T(locale, key)
	if len(args) == 0 {
		return template
	}

	return fmt.Sprintf(template, args...)
}
