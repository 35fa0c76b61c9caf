package validity

import (
	"strings"
	"sync"
)

var (
	localeMu sync.RWMutex
	locales  = map[string]Catalog{
		"en": defaultCatalog{},
	}
)

// RegisterLocale registers a catalog under a locale tag, replacing any
// previous registration. Tags are matched case-insensitively; a region
// suffix ("en-GB") falls back to its base language.
func RegisterLocale(tag string, catalog Catalog) {
	if tag == "" || catalog == nil {
		return
	}
	localeMu.Lock()
	defer localeMu.Unlock()
	locales[normalizeTag(tag)] = catalog
}

// CatalogFor resolves a locale tag to a registered catalog. Unknown tags
// resolve to the built-in English catalog.
func CatalogFor(tag string) Catalog {
	localeMu.RLock()
	defer localeMu.RUnlock()

	key := normalizeTag(tag)
	if catalog, ok := locales[key]; ok {
		return catalog
	}
	if base, _, found := strings.Cut(key, "-"); found {
		if catalog, ok := locales[base]; ok {
			return catalog
		}
	}
	return defaultCatalog{}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(tag, "_", "-")))
}
