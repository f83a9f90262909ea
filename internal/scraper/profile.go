// Playwright-backed Site implementation. A site adapter is a Profile: URL
// builder plus the fallback chains for every semantic field. The quirks that
// cannot be expressed as selector lists (drawer-style detail panes, human
// challenge pauses, block detection) are hooks.

package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"

	"go-jobharvest-automation/internal/browser"
	"go-jobharvest-automation/internal/locator"
	"go-jobharvest-automation/internal/models"
	"go-jobharvest-automation/utils"
)

// ErrBlocked means the site's anti-bot layer stopped this navigation. It is
// page-scoped, not session-fatal.
var ErrBlocked = errors.New("blocked by anti-bot challenge")

type Profile struct {
	Site    string
	BaseURL string
	//SearchURL builds the result-page URL; page numbers are 1-based.
	SearchURL func(keyword, location string, days, page int) string

	//Fallback chains, tried in declared order
	CardSelectors []string
	Title         []locator.Candidate
	Company       []locator.Candidate
	Location      []locator.Candidate
	Salary        []locator.Candidate
	Link          []locator.Candidate
	Description   []locator.Candidate

	//LinkBuilder overrides Link for sites that encode the job key in a
	//data attribute instead of an href.
	LinkBuilder func(card locator.Root) (string, bool)

	//TitleClean post-processes a raw title, e.g. stripping an accessible
	//label prefix.
	TitleClean func(string) string

	//NextSelector empty means pagination is purely URL-driven and the
	//zero-card stop ends the walk.
	NextSelector string

	//StripQuery drops tracking query params from detail URLs.
	StripQuery bool

	//ClientFiltered: search cannot be scoped server-side, apply the
	//client-side relevance net.
	ClientFiltered bool

	//DetailViaClick: the detail pane is a drawer opened by clicking the
	//card; the job URL only exists after the click.
	DetailViaClick bool
	DrawerSelector string

	//DefaultCompany for first-party boards where every listing belongs to
	//the operator.
	DefaultCompany string

	//Challenge names the human-solved challenge this site may present.
	//Empty means the site never needs one.
	Challenge string

	//Blocked detects an anti-bot interstitial after navigation.
	Blocked func(page playwright.Page) bool
}

// Adapter wraps a Profile into the site adapter contract.
type ProfileAdapter struct {
	profile *Profile
}

func NewAdapter(profile *Profile) *ProfileAdapter {
	return &ProfileAdapter{profile: profile}
}

func (a *ProfileAdapter) Name() string {
	return a.profile.Site
}

func (a *ProfileAdapter) Crawl(ctx context.Context, sess *browser.Session, req Request) ([]models.JobRecord, error) {
	site := &profileSite{profile: a.profile, sess: sess, req: req, descCache: map[string]string{}}
	return Crawl(ctx, site, req)
}

type profileSite struct {
	profile   *Profile
	sess      *browser.Session
	req       Request
	cardSel   string
	warmed    bool
	descCache map[string]string
	shots     *utils.ScreenShotDebugger
}

func (s *profileSite) Name() string         { return s.profile.Site }
func (s *profileSite) ClientFiltered() bool { return s.profile.ClientFiltered }
func (s *profileSite) IsFatal(err error) bool { return browser.IsFatal(err) }

func (s *profileSite) Recover() error {
	return s.sess.Rebuild()
}

func (s *profileSite) OpenSearch(keyword string, pageNum int) error {
	page := s.sess.Page()
	url := s.profile.SearchURL(keyword, s.req.Location, s.req.Days, pageNum)

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	if s.profile.Blocked != nil && s.profile.Blocked(page) {
		s.screenshots().CaptureAndLog(page, s.profile.Site+"-blocked",
			fmt.Sprintf("🚨 %s: anti-bot challenge detected", s.profile.Site))
		if !s.warmed && s.profile.Challenge != "" {
			//one blocking human pause per run; automated runs skip it and
			//accept degraded results
			s.sess.AwaitChallenge(s.profile.Challenge)
		}
		if s.profile.Blocked(page) {
			return ErrBlocked
		}
	}
	s.warmed = true

	//human behavior between navigations
	utils.RandomDelay(800, 1600)
	utils.MouseJiggle(page)
	utils.SmoothScroll(page)
	return nil
}

func (s *profileSite) CardCount() (int, error) {
	page := s.sess.Page()
	for _, sel := range s.profile.CardSelectors {
		count, err := page.Locator(sel).Count()
		if err != nil {
			if browser.IsFatal(err) {
				return 0, err
			}
			continue
		}
		if count > 0 {
			s.cardSel = sel
			return count, nil
		}
	}
	return 0, nil
}

func (s *profileSite) Cards() ([]Card, error) {
	if s.cardSel == "" {
		return nil, nil
	}
	handles, err := s.sess.Page().Locator(s.cardSel).All()
	if err != nil {
		return nil, err
	}
	cards := make([]Card, len(handles))
	for i, h := range handles {
		cards[i] = &profileCard{site: s, handle: h}
	}
	return cards, nil
}

func (s *profileSite) NextAvailable() (bool, error) {
	if s.profile.NextSelector == "" {
		return true, nil
	}
	next := s.sess.Page().Locator(s.profile.NextSelector).First()
	count, err := next.Count()
	if err != nil || count == 0 {
		return false, err
	}
	if disabled, err := next.IsDisabled(); err == nil && disabled {
		return false, nil
	}
	return true, nil
}

// FetchDescription opens the candidate's detail URL in its own tab so the
// result list never goes stale. Drawer-style sites already captured the
// description during Phase 1.
func (s *profileSite) FetchDescription(meta models.RawCardMetadata) (string, error) {
	if s.profile.DetailViaClick {
		return s.descCache[meta.DetailURL], nil
	}

	tab, err := s.sess.NewPage()
	if err != nil {
		return "", err
	}
	defer tab.Close()

	if _, err := tab.Goto(meta.DetailURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("open detail %s: %w", meta.DetailURL, err)
	}
	utils.RandomDelay(500, 1200)

	description, err := locator.Resolve(locator.FromPage(tab), s.profile.Description)
	if err != nil {
		return "", err
	}
	if description == "" {
		return "", fmt.Errorf("no description found at %s", meta.DetailURL)
	}
	return description, nil
}

func (s *profileSite) screenshots() *utils.ScreenShotDebugger {
	if s.shots == nil {
		s.shots = utils.NewScreenShotDebugger()
	}
	return s.shots
}

type profileCard struct {
	site   *profileSite
	handle playwright.Locator
}

func (c *profileCard) Meta(keyword string) (models.RawCardMetadata, error) {
	if c.site.profile.DetailViaClick {
		return c.metaFromDrawer(keyword)
	}

	p := c.site.profile
	root := locator.FromLocator(c.handle)

	title, err := locator.Resolve(root, p.Title)
	if err != nil {
		return models.RawCardMetadata{}, err
	}
	if p.TitleClean != nil {
		title = p.TitleClean(title)
	}
	company, err := locator.Resolve(root, p.Company)
	if err != nil {
		return models.RawCardMetadata{}, err
	}
	if company == "" {
		company = p.DefaultCompany
	}
	location, err := locator.Resolve(root, p.Location)
	if err != nil {
		return models.RawCardMetadata{}, err
	}
	salary, err := locator.Resolve(root, p.Salary)
	if err != nil {
		return models.RawCardMetadata{}, err
	}

	var href string
	if p.LinkBuilder != nil {
		if built, ok := p.LinkBuilder(root); ok {
			href = built
		}
	}
	if href == "" {
		href, err = locator.Resolve(root, p.Link)
		if err != nil {
			return models.RawCardMetadata{}, err
		}
	}

	detailURL, ok := AbsoluteURL(p.BaseURL, href)
	if !ok {
		detailURL = ""
	} else if p.StripQuery {
		detailURL = StripTracking(detailURL)
	}

	return models.RawCardMetadata{
		Title:         title,
		Company:       company,
		Location:      location,
		Salary:        salary,
		DetailURL:     detailURL,
		SourceSite:    p.Site,
		SearchKeyword: keyword,
	}, nil
}

// metaFromDrawer clicks the card and reads everything from the detail
// drawer: these boards only materialize the job URL after the click.
func (c *profileCard) metaFromDrawer(keyword string) (models.RawCardMetadata, error) {
	p := c.site.profile
	page := c.site.sess.Page()

	if err := c.handle.ScrollIntoViewIfNeeded(); err != nil && browser.IsFatal(err) {
		return models.RawCardMetadata{}, err
	}
	if err := c.handle.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)}); err != nil {
		if browser.IsFatal(err) {
			return models.RawCardMetadata{}, err
		}
		return models.RawCardMetadata{}, nil
	}
	utils.RandomDelay(1200, 2200)

	drawer := page.Locator(p.DrawerSelector).First()
	if visible, err := drawer.IsVisible(); err != nil || !visible {
		if err != nil && browser.IsFatal(err) {
			return models.RawCardMetadata{}, err
		}
		log.Printf("  ⚠️ %s: detail drawer did not open", p.Site)
		return models.RawCardMetadata{}, nil
	}

	root := locator.FromLocator(drawer)
	title, err := locator.Resolve(root, p.Title)
	if err != nil {
		return models.RawCardMetadata{}, err
	}
	if p.TitleClean != nil {
		title = p.TitleClean(title)
	}
	company, _ := locator.Resolve(root, p.Company)
	if company == "" {
		company = p.DefaultCompany
	}
	location, _ := locator.Resolve(root, p.Location)
	salary, _ := locator.Resolve(root, p.Salary)

	detailURL, ok := AbsoluteURL(p.BaseURL, page.URL())
	if !ok {
		detailURL = ""
	} else if p.StripQuery {
		detailURL = StripTracking(detailURL)
	}

	//the drawer is the description; cache it for Phase 2
	if detailURL != "" {
		if text, err := drawer.InnerText(); err == nil {
			c.site.descCache[detailURL] = text
		}
	}

	return models.RawCardMetadata{
		Title:         title,
		Company:       company,
		Location:      location,
		Salary:        salary,
		DetailURL:     detailURL,
		SourceSite:    p.Site,
		SearchKeyword: keyword,
	}, nil
}
