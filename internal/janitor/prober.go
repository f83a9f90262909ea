package janitor

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// HTTPProber fetches a listing page and scans its visible text for the
// phrases boards use on dead postings. A page that cannot be fetched at all
// counts as expired: keeping unverifiable rows around forever is worse than
// occasionally dropping a flaky one.
type HTTPProber struct {
	client  *http.Client
	limiter *rate.Limiter
	phrases []string
}

func NewHTTPProber(phrases []string, perSecond float64) *HTTPProber {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &HTTPProber{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		phrases: phrases,
	}
}

func (p *HTTPProber) IsExpired(ctx context.Context, url string) bool {
	if err := p.limiter.Wait(ctx); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return true
	}
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("⚠️ Could not verify %s: %v", url, err)
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return true
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("⚠️ Could not parse %s: %v", url, err)
		return true
	}

	return ContainsExpiredPhrase(doc.Text(), p.phrases)
}

// ContainsExpiredPhrase is the heuristic on its own, case-insensitive.
func ContainsExpiredPhrase(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
