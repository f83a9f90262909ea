// Resolves a semantic field (title, company, description...) against markup
// that changes without notice. Each field carries an ordered fallback list of
// structural queries; declaration order is the priority. First non-empty
// value wins, never "best match".

package locator

import (
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobharvest-automation/internal/browser"
)

// Candidate is one structural query. Attr empty means trimmed text content,
// otherwise the named attribute is read. An empty Selector targets the root
// element itself, for boards where the card is the link.
type Candidate struct {
	Selector string
	Attr     string
}

// Text builds candidates that read text content.
func Text(selectors ...string) []Candidate {
	out := make([]Candidate, len(selectors))
	for i, s := range selectors {
		out[i] = Candidate{Selector: s}
	}
	return out
}

// Attr builds candidates that all read the same attribute.
func Attr(attr string, selectors ...string) []Candidate {
	out := make([]Candidate, len(selectors))
	for i, s := range selectors {
		out[i] = Candidate{Selector: s, Attr: attr}
	}
	return out
}

// Root is anything a query can be evaluated against: a page, a card element,
// a drawer. Extract returns the trimmed value or "" when the selector finds
// nothing useful.
type Root interface {
	Extract(selector, attr string) (string, error)
}

// Resolve tries each candidate in declared order and returns the first
// non-empty value. A candidate failing (absent element, timeout) is
// swallowed; only a session-fatal error propagates, because retrying
// selectors against a dead browser is pointless.
func Resolve(root Root, candidates []Candidate) (string, error) {
	for _, c := range candidates {
		value, err := root.Extract(c.Selector, c.Attr)
		if err != nil {
			if browser.IsFatal(err) {
				return "", err
			}
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}
	return "", nil
}

// extractTimeoutMs keeps a missing selector from stalling the whole card
// loop; the fallback chain is the retry mechanism, not the timeout.
const extractTimeoutMs = 1500

type locatorRoot struct {
	l playwright.Locator
}

// FromLocator adapts a playwright element handle (a listing card, a detail
// drawer) into a Root.
func FromLocator(l playwright.Locator) Root {
	return locatorRoot{l: l}
}

func (r locatorRoot) Extract(selector, attr string) (string, error) {
	el := r.l
	if selector != "" {
		el = r.l.Locator(selector).First()
	}
	if attr != "" {
		return el.GetAttribute(attr, playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(extractTimeoutMs),
		})
	}
	return el.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(extractTimeoutMs),
	})
}

type pageRoot struct {
	p playwright.Page
}

// FromPage adapts a whole page into a Root (detail descriptions).
func FromPage(p playwright.Page) Root {
	return pageRoot{p: p}
}

func (r pageRoot) Extract(selector, attr string) (string, error) {
	if selector == "" {
		selector = "body"
	}
	el := r.p.Locator(selector).First()
	if attr != "" {
		return el.GetAttribute(attr, playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(extractTimeoutMs),
		})
	}
	return el.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(extractTimeoutMs),
	})
}
