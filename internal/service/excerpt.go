package service

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	excerptEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	excerptPolicy = bluemonday.StrictPolicy()
)

const excerptRuneLimit = 160

// deriveExcerpt renders markdown content and strips it down to a short
// plain-text summary for list views and SEO fallbacks.
func deriveExcerpt(markdown string) string {
	var buf bytes.Buffer
	if err := excerptEngine.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}

	plain := excerptPolicy.Sanitize(buf.String())
	plain = html.UnescapeString(plain)
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" {
		return ""
	}

	if utf8.RuneCountInString(plain) <= excerptRuneLimit {
		return plain
	}

	runes := []rune(plain)
	return string(runes[:excerptRuneLimit]) + "…"
}
