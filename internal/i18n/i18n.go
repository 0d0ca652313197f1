// Package i18n looks up the user-facing labels shown alongside conversion
// results.
//
// Messages are stored in a golang.org/x/text catalog. The requested locale is
// matched against the catalog's languages, so "de-AT" resolves to German and an
// unknown locale falls back to English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeySVGSize    = "svgSize"
	KeyProcessing = "processing"
)

// Translator resolves a message key to display text.
type Translator interface {
	T(key string) string
}

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeySVGSize:    "SVG size",
		KeyProcessing: "Processing",
	},
	language.German: {
		KeySVGSize:    "SVG-Größe",
		KeyProcessing: "Verarbeitung",
	},
	language.French: {
		KeySVGSize:    "Taille du SVG",
		KeyProcessing: "Traitement",
	},
	language.Spanish: {
		KeySVGSize:    "Tamaño del SVG",
		KeyProcessing: "Procesando",
	},
	language.Japanese: {
		KeySVGSize:    "SVG のサイズ",
		KeyProcessing: "処理中",
	},
}

// Catalog is a Translator bound to one locale.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a Catalog for locale. English is listed first in the catalog so
// it wins when nothing else matches.
func New(locale string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := []language.Tag{language.English}
	for tag := range messages {
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	for _, tag := range tags {
		for key, msg := range messages[tag] {
			// SetString only fails on malformed messages; ours are static.
			_ = b.SetString(tag, key, msg)
		}
	}

	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(language.Make(locale))
	tag := tags[idx]

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Language returns the tag the catalog resolved to.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T returns the localized text for key, or key itself when unknown.
func (c *Catalog) T(key string) string {
	return c.printer.Sprintf(key)
}
