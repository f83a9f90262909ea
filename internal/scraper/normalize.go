package scraper

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText lowercases and strips diacritics so "Cần Thơ" and "can tho"
// compare equal.
func NormalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		return strings.ToLower(str)
	}
	return strings.ToLower(result)
}

// NormalizeState derives the normalized-state column from a raw location
// string: diacritic-free, lowercase, trimmed.
func NormalizeState(location string) string {
	state := NormalizeText(strings.TrimSpace(location))
	if state == "" {
		return "remote"
	}
	return state
}

// AbsoluteURL resolves href against base and returns it only when the result
// is a well-formed absolute http(s) URL. Anything else is unusable as a
// record key.
func AbsoluteURL(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", false
		}
		u = b.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// StripTracking drops the query string: the same listing must not reappear
// under a different refId or trackingId.
func StripTracking(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}
