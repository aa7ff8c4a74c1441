package views

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/anvilhq/anvil/pkg/sanitizer"
)

// defaultFuncs returns the function map available to every template.
// Engine options can extend or override it.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownFunc,
		"safe":     safeFunc,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"default":  defaultFunc,
	}
}

// markdownFunc converts a markdown string to HTML.
func markdownFunc(s string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// safeFunc marks user-supplied HTML as renderable after sanitization.
func safeFunc(s string) template.HTML {
	return template.HTML(sanitizer.SanitizeHTML(s))
}

// defaultFunc returns fallback when the value is nil or an empty string.
func defaultFunc(fallback, value any) any {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
	}
	return value
}
