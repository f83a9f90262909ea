package scraper

import (
	"strings"
)

// MatchesKeyword is the client-side relevance safety net for sites whose
// search cannot be scoped server-side. It checks whole-word presence of
// every meaningful keyword token in the candidate's text; the primary filter
// is always the site's own search.
func MatchesKeyword(keyword, text string) bool {
	tokens := keywordTokens(keyword)
	if len(tokens) == 0 {
		return true
	}

	haystack := tokenSet(text)
	for _, tok := range tokens {
		if _, ok := haystack[tok]; !ok {
			return false
		}
	}
	return true
}

func keywordTokens(keyword string) []string {
	var tokens []string
	for _, tok := range strings.Fields(NormalizeText(keyword)) {
		//short stopword-ish tokens would make the net too tight
		if len(tok) < 2 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	normalized := NormalizeText(text)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !(r == '+' || r == '#' || r == '.' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'))
	})
	for _, f := range fields {
		set[strings.Trim(f, ".")] = struct{}{}
	}
	return set
}
