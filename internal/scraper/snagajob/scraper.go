// Snagajob renders job details in a drawer that opens on card click; the
// listing has no detail hrefs at all and the job URL only exists once the
// drawer navigation lands. Phase 1 therefore clicks each card and captures
// everything from the drawer in one pass.

package snagajob

import (
	"fmt"
	"net/url"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "Snagajob",
		BaseURL: "https://www.snagajob.com",
		SearchURL: func(keyword, location string, days, page int) string {
			return fmt.Sprintf("https://www.snagajob.com/search?q=%s&w=%s&radius=20&page=%d",
				url.QueryEscape(keyword), url.QueryEscape(location), page)
		},
		CardSelectors: []string{
			"button[data-test='job-card']",
			"div[data-test='job-card']",
			"button[class*='job-card']",
			"div[class*='job-card']",
			"[class*='JobCard']",
			"article",
		},
		DetailViaClick: true,
		DrawerSelector: "mat-drawer job-details, job-details, div.job-details, [class*='job-detail']",
		Title: locator.Text(
			"h2",
			"h3",
			".job-title",
			"h1",
			"[class*='title']",
		),
		Company: locator.Text(
			".company-name",
			".job-company",
			"[class*='company']",
		),
		Location: locator.Text(
			"[class*='location']",
			".job-location",
		),
		Salary: locator.Text(
			"[class*='pay']",
			"[class*='salary']",
		),
		StripQuery: true,
	})
}
