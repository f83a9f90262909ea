// CareerBuilder paginates through the page_number query param and has no
// next control, so the walk ends on the first empty page. Company and
// location share one details row; the span order is stable.

package careerbuilder

import (
	"fmt"
	"net/url"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "CareerBuilder",
		BaseURL: "https://www.careerbuilder.com",
		SearchURL: func(keyword, location string, days, page int) string {
			return fmt.Sprintf("https://www.careerbuilder.com/jobs?keywords=%s&location=%s&page_number=%d",
				url.QueryEscape(keyword), url.QueryEscape(location), page)
		},
		CardSelectors: []string{
			"li.data-results-content-parent",
			".data-results-content-parent",
		},
		Title: locator.Text(
			".data-results-title",
			".job-title",
		),
		Company: locator.Text(
			".data-details span:nth-of-type(1)",
			".job-details span:nth-of-type(1)",
		),
		Location: locator.Text(
			".data-details span:nth-of-type(2)",
			".job-details span:nth-of-type(2)",
		),
		Link: locator.Attr("href",
			"a.job-listing-item",
			"a[data-job-did]",
		),
		Description: locator.Text(
			"#jdp_description",
			".jdp-description-details",
			".job-description",
		),
		StripQuery: true,
	})
}
