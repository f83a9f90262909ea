// Monster sits behind an aggressive bot wall. The first navigation of a run
// may surface a CAPTCHA; interactive runs pause for the operator once,
// headless runs log the block and move on with whatever loads.

package monster

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/scraper"
)

func New() *scraper.ProfileAdapter {
	return scraper.NewAdapter(&scraper.Profile{
		Site:    "Monster",
		BaseURL: "https://www.monster.com",
		SearchURL: func(keyword, location string, days, page int) string {
			return fmt.Sprintf("https://www.monster.com/jobs/search?q=%s&where=%s&page=%d",
				url.QueryEscape(keyword), url.QueryEscape(location), page)
		},
		CardSelectors: []string{
			"li.data-results-content-parent",
			"[data-testid='JobCard']",
			"article.job-cardstyle__JobCardComponent",
		},
		Title: locator.Text(
			"h2",
			"h3",
			"a",
		),
		Company: locator.Text(
			".company",
			"[data-testid='company']",
		),
		Location: locator.Text(
			".location",
			"[data-testid='jobDetailLocation']",
		),
		Link: locator.Attr("href", "a"),
		Description: locator.Text(
			".job-description",
			"[data-testid='svx-description-container-inner']",
			".description",
		),
		StripQuery: true,
		Blocked: func(page playwright.Page) bool {
			title, err := page.Title()
			if err != nil {
				return false
			}
			if strings.Contains(title, "Access Denied") || strings.Contains(title, "Just a moment") {
				return true
			}
			count, err := page.Locator("iframe[title*='challenge'], #px-captcha").Count()
			return err == nil && count > 0
		},
		Challenge: "Complete the CAPTCHA in the browser window",
	})
}
