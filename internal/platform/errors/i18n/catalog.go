// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the fallback locale for every lookup.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{
		BaseLocale: NewCatalog(BaseLocale, enUSMessages),
		"pt-BR":    NewCatalog("pt-BR", ptBRMessages),
	}

	supported = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher   = language.NewMatcher(supported)
)

// GetCatalog returns the catalog that best matches the given locale.
// The locale may be a single tag or an Accept-Language header value.
// Falls back to en-US when nothing matches.
func GetCatalog(locale string) *Catalog {
	return mustLookup(MatchLocale(locale))
}

// MatchLocale negotiates the supported locale closest to the requested one.
func MatchLocale(locale string) string {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c.locale
	}
	tags, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return BaseLocale
	}
	return supported[index].String()
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		if c.locale != BaseLocale {
			return mustLookup(BaseLocale).Format(code, metadata)
		}
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a new catalog for the given locale.
// Intended for init or single-threaded test setup.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func mustLookup(locale string) *Catalog {
	if c, ok := lookupCatalog(locale); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}
