package teksystems

import (
	"fmt"
	"net/url"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

// New builds the TekSystems careers adapter. A first-party board: every
// listing belongs to the operator, so the company column is fixed and the
// keyword match happens client-side.
func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "TekSystems",
		BaseURL: "https://careers.teksystems.com",
		SearchURL: func(keyword, location string, days, page int) string {
			//from is a 0-based result offset, 10 cards per page
			return fmt.Sprintf("https://careers.teksystems.com/us/en/search-results?keywords=%s&from=%d",
				url.QueryEscape(keyword), (page-1)*10)
		},
		CardSelectors: []string{
			".ph-job-card",
			".job-description",
		},
		Title: locator.Text(
			".ph-job-card-title",
			".job-title",
		),
		Location: locator.Text(
			".ph-job-card-location",
			".job-location",
		),
		Link: []locator.Candidate{
			{Selector: "a.ph-job-card-title", Attr: "href"},
			{Selector: ".ph-job-card-title", Attr: "href"},
			{Selector: "a", Attr: "href"},
		},
		Description: locator.Text(
			".description__text",
			".job-description",
		),
		DefaultCompany: "TekSystems",
		ClientFiltered: true,
		StripQuery:     true,
	})
}
