// Dice search cannot be scoped server-side for arbitrary keywords, so the
// adapter is client-filtered: the engine re-checks every candidate against
// the keyword after the detail fetch. The listing card is itself the link
// element; the title hides in its accessible label.

package dice

import (
	"fmt"
	"net/url"
	"strings"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "Dice",
		BaseURL: "https://www.dice.com",
		SearchURL: func(keyword, location string, days, page int) string {
			return fmt.Sprintf("https://www.dice.com/jobs?q=%s&location=%s&page=%d",
				url.QueryEscape(keyword), url.QueryEscape(location), page)
		},
		CardSelectors: []string{
			"a[data-testid='job-search-job-card-link']",
		},
		Title: []locator.Candidate{
			{Selector: "", Attr: "aria-label"},
			{Selector: "[data-testid='job-title']"},
		},
		TitleClean: func(title string) string {
			return strings.TrimSpace(strings.TrimPrefix(title, "View Details for"))
		},
		Company: locator.Text(
			"[data-testid='company-name']",
			".company-name",
		),
		Location: locator.Text(
			"[data-testid='job-location']",
			".location",
		),
		Link: locator.Attr("href", ""),
		Description: locator.Text(
			".job-description",
			"[data-testid='job-description']",
		),
		ClientFiltered: true,
	})
}
