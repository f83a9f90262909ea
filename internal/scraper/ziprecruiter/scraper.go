package ziprecruiter

import (
	"fmt"
	"net/url"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

// New builds the ZipRecruiter adapter. The days query param scopes posting
// age server-side, so no client-side relevance net is needed.
func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "ZipRecruiter",
		BaseURL: "https://www.ziprecruiter.com",
		SearchURL: func(keyword, location string, days, page int) string {
			return fmt.Sprintf("https://www.ziprecruiter.com/jobs/search?search=%s&location=%s&days=%d&page=%d",
				url.QueryEscape(keyword), url.QueryEscape(location), days, page)
		},
		CardSelectors: []string{
			"div.job_content",
			"article.job_result",
		},
		Title: locator.Text(
			"h2",
			".job_title",
		),
		Company: locator.Text(
			".t_org_link",
			"[data-testid='job-card-company']",
		),
		Location: locator.Text(
			".location",
			"[data-testid='job-card-location']",
		),
		Salary: locator.Text(
			".perks_item",
			"[data-testid='job-card-salary']",
		),
		Link: locator.Attr("href", "h2 a", "a"),
		Description: locator.Text(
			"div.job_description",
			".jobDescriptionSection",
		),
		StripQuery: true,
	})
}
