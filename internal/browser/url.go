package browser

import "strings"

// NormalizeURL prefixes https:// when the URL carries no http(s) scheme.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}

// StatusOK reports whether a navigation status counts as success.
func StatusOK(status int) bool {
	return status >= 200 && status < 400
}
