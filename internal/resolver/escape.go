package resolver

import "strings"

// Escape makes text safe to embed between single quotes in a CSS or
// Playwright selector. Only quotes are touched; case and whitespace are left
// to the strategies.
func Escape(text string) string {
	return strings.ReplaceAll(text, "'", `\'`)
}

// XPathLiteral renders text as an XPath 1.0 string literal, quotes
// included. XPath has no escape sequences, so text holding both quote
// kinds is built with concat().
func XPathLiteral(text string) string {
	if !strings.Contains(text, "'") {
		return "'" + text + "'"
	}
	if !strings.Contains(text, `"`) {
		return `"` + text + `"`
	}

	parts := strings.Split(text, "'")
	args := make([]string, 0, 2*len(parts))
	for i, part := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if part != "" {
			args = append(args, "'"+part+"'")
		}
	}
	if len(args) == 1 {
		return args[0]
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
