package backend

import (
	"strings"
)

// DefaultURL is the production backend, used when no URL is configured.
const DefaultURL = "https://clinicalaiclinicalfolders-production.up.railway.app"

// NormalizeURL guarantees an explicit scheme and no trailing slash.
// Empty input resolves to DefaultURL.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)

	if url == "" {
		return DefaultURL
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	return strings.TrimRight(url, "/")
}
