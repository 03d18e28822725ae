package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var titlePolicy = bluemonday.StrictPolicy()

// SanitizeTitle reduces user supplied title text to a single plain line:
// HTML is stripped entirely, entities are unescaped back to text, and line
// breaks are collapsed so a title can never span header lines in the
// metadata document.
func SanitizeTitle(input string) string {
	clean := html.UnescapeString(titlePolicy.Sanitize(input))
	clean = strings.ReplaceAll(clean, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}
