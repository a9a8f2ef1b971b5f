// Package sanitize cleans free text captured by public lead forms before it
// is echoed back to API clients.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// DisplayText strips markup, decodes entities and collapses whitespace.
// Tags are stripped again after decoding so encoded markup cannot survive.
func DisplayText(s string) string {
	result := tagPattern.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = tagPattern.ReplaceAllString(result, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(result, " "))
}

// DisplayTextPtr applies DisplayText to an optional value. Values that are
// empty after cleaning become nil.
func DisplayTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := DisplayText(*s)
	if result == "" {
		return nil
	}
	return &result
}
