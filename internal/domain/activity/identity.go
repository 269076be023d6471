package activity

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const minDisplayNameRunes = 3

var knownBrowsers = map[string]bool{
	"google chrome":   true,
	"chrome":          true,
	"chromium":        true,
	"safari":          true,
	"firefox":         true,
	"mozilla firefox": true,
	"arc":             true,
	"microsoft edge":  true,
	"msedge":          true,
	"brave browser":   true,
	"brave":           true,
	"opera":           true,
	"vivaldi":         true,
	"zen browser":     true,
}

var browserSuffixes = []string{
	" - Google Chrome",
	" - Chromium",
	" - Safari",
	" - Mozilla Firefox",
	" — Mozilla Firefox",
	" - Firefox",
	" - Microsoft Edge",
	" - Brave",
	" - Arc",
	" - Opera",
	" - Vivaldi",
}

var notificationPrefix = regexp.MustCompile(`^\(\d+\+?\)\s*`)

// IsKnownBrowser reports whether the owner name belongs to a web browser.
func IsKnownBrowser(ownerName string) bool {
	return knownBrowsers[strings.ToLower(strings.TrimSpace(ownerName))]
}

// Resolve maps a sample to the identifier it is grouped by. It never fails;
// malformed samples resolve to an app identity keyed by owner name.
func Resolve(s Sample) Identity {
	rawURL := strings.TrimSpace(s.URL)
	if rawURL != "" {
		host := Hostname(rawURL)
		display := CleanTitle(s.Title)
		if utf8.RuneCountInString(display) < minDisplayNameRunes || strings.EqualFold(display, host) {
			display = host
		}
		return Identity{
			ItemType:    ItemTypeWebsite,
			Identifier:  host,
			DisplayName: display,
			OriginalURL: s.URL,
		}
	}

	title := strings.TrimSpace(s.Title)
	if title != "" && IsKnownBrowser(s.OwnerName) {
		return Identity{
			ItemType:    ItemTypeWebsite,
			Identifier:  title,
			DisplayName: title,
		}
	}

	return Identity{
		ItemType:    ItemTypeApp,
		Identifier:  s.OwnerName,
		DisplayName: s.OwnerName,
	}
}

// Hostname returns the lower-cased host of rawURL without a leading "www.".
// Values that do not parse as a URL are returned trimmed.
func Hostname(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	candidate := rawURL
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// CleanTitle strips browser chrome and notification counters from a window title.
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(title)
	for _, suffix := range browserSuffixes {
		if strings.HasSuffix(cleaned, suffix) {
			cleaned = strings.TrimSuffix(cleaned, suffix)
			break
		}
	}
	cleaned = notificationPrefix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// LooksLikeURL reports whether an identifier should be matched against URLs.
func LooksLikeURL(identifier string) bool {
	identifier = strings.TrimSpace(identifier)
	return strings.Contains(identifier, "://") || strings.HasPrefix(strings.ToLower(identifier), "www.")
}
