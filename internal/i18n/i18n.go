// Package i18n resolves user-facing error text by key and locale. A missing
// key falls back to the key itself so a translation gap never fails a request.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const fallbackLocale = "en"

var supported = []language.Tag{
	language.English,
	language.Vietnamese,
	language.Japanese,
}

var (
	matcher  = language.NewMatcher(supported)
	catalogs = mustLoadCatalogs()
)

func mustLoadCatalogs() map[string]map[string]string {
	out := make(map[string]map[string]string)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: read locales: %v", err))
	}

	for _, entry := range entries {
		locale := strings.TrimSuffix(entry.Name(), ".json")
		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("i18n: read %s: %v", entry.Name(), err))
		}

		messages := make(map[string]string)
		if err := json.Unmarshal(raw, &messages); err != nil {
			panic(fmt.Sprintf("i18n: parse %s: %v", entry.Name(), err))
		}
		out[locale] = messages
	}

	return out
}

// Resolve picks the best supported locale for an Accept-Language header.
// Empty or unparseable headers resolve to the fallback locale.
func Resolve(acceptLanguage string) string {
	if acceptLanguage == "" {
		return fallbackLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return fallbackLocale
	}

	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return base.String()
}

// T looks up key in the given locale, then in the fallback locale, and
// finally returns the key itself.
func T(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if messages, ok := catalogs[fallbackLocale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	return key
}
