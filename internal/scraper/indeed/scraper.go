// Indeed has the most volatile markup of all supported boards, hence the
// long fallback chains. The canonical job URL is rebuilt from the data-jk
// job key so the same listing never reappears under a different tracking
// wrapper.

package indeed

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

const baseURL = "https://www.indeed.com/jobs"

func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "Indeed",
		BaseURL: "https://www.indeed.com",
		SearchURL: func(keyword, location string, days, page int) string {
			//fromage scopes posting age server-side, start is 0-based offset
			return fmt.Sprintf("%s?q=%s&l=%s&fromage=%d&start=%d",
				baseURL, url.QueryEscape(keyword), url.QueryEscape(location), days, (page-1)*10)
		},
		CardSelectors: []string{
			".job_seen_beacon",
			".jobCard",
			"[data-testid='job-card']",
			".slider_item",
			".tapItem",
			"li.css-5lfssm",
		},
		Title: []locator.Candidate{
			{Selector: "h2.jobTitle span[title]", Attr: "title"},
			{Selector: "h2.jobTitle a span"},
			{Selector: ".jobTitle span"},
			{Selector: "[data-testid='job-title']"},
		},
		Company: locator.Text(
			"[data-testid='company-name']",
			".companyName",
			"span.companyName",
		),
		Location: locator.Text(
			"[data-testid='text-location']",
			".companyLocation",
			".location",
		),
		Salary: locator.Text(
			"[data-testid='attribute_snippet_testid']",
			".salary-snippet-container",
			".metadata.salary-snippet-container",
		),
		LinkBuilder: func(card locator.Root) (string, bool) {
			jk, err := card.Extract("a[data-jk]", "data-jk")
			if err != nil || jk == "" {
				return "", false
			}
			return fmt.Sprintf("%s/viewjob?jk=%s", baseURL, jk), true
		},
		Link: locator.Attr("href", "h2.jobTitle a", "a[data-jk]"),
		Description: locator.Text(
			"#jobDescriptionText",
			".jobsearch-jobDescriptionText",
			".job-snippet",
		),
		NextSelector: "a[data-testid='pagination-page-next']",
		Blocked: func(page playwright.Page) bool {
			title, err := page.Title()
			if err != nil {
				return false
			}
			return strings.Contains(title, "Just a moment") ||
				strings.Contains(title, "Attention Required")
		},
		Challenge: "Indeed is showing a verification page",
	})
}
