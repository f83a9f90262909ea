// The shared two-phase crawl loop every site adapter runs on.
//
// Phase 1 reads every visible listing card without navigating away, so card
// element handles never go stale. Phase 2 visits each candidate's detail URL
// independently. Per-card and per-page failures are contained; a dead
// session is rebuilt and the loop resumes with whatever was already
// collected.

package scraper

import (
	"context"
	"log"
	"time"

	"go-jobharvest-automation/internal/models"
	"go-jobharvest-automation/internal/pagination"
)

// Card is one listing card handle during Phase 1.
type Card interface {
	//Meta extracts the ephemeral card fields. Only session-fatal errors
	//propagate; a missing field comes back empty.
	Meta(keyword string) (models.RawCardMetadata, error)
}

// Site is the engine's view of one job board. The playwright-backed
// implementation lives in profile.go; tests drive the engine with fakes.
type Site interface {
	Name() string
	//ClientFiltered reports that search cannot be scoped server-side and
	//the client-side relevance net must be applied.
	ClientFiltered() bool

	OpenSearch(keyword string, pageNum int) error
	CardCount() (int, error)
	Cards() ([]Card, error)
	NextAvailable() (bool, error)

	//FetchDescription runs Phase 2 for one candidate.
	FetchDescription(meta models.RawCardMetadata) (string, error)

	//Recover rebuilds the underlying session after a fatal error.
	Recover() error

	//IsFatal classifies an error as session-fatal.
	IsFatal(err error) bool
}

// searchSource adapts one (site, keyword) pair to the pagination driver.
type searchSource struct {
	site    Site
	keyword string
}

func (s *searchSource) GotoPage(n int) error      { return s.site.OpenSearch(s.keyword, n) }
func (s *searchSource) CardCount() (int, error)   { return s.site.CardCount() }
func (s *searchSource) NextAvailable() (bool, error) { return s.site.NextAvailable() }

// Crawl drives the full (keyword × page × card) loop for one site and
// returns candidates in page-then-card order. It returns an error only when
// nothing could be crawled at all; partial results always win over errors.
func Crawl(ctx context.Context, site Site, req Request) ([]models.JobRecord, error) {
	var collected []models.JobRecord
	seen := make(map[string]bool)

	budget := pagination.Budget{
		MaxPages:   req.MaxPages,
		DelayMinMs: req.DelayMinMs,
		DelayMaxMs: req.DelayMaxMs,
	}
	if deadline, ok := ctx.Deadline(); ok {
		budget.Deadline = deadline
	}

	for _, keyword := range req.Keywords {
		if len(collected) >= req.MaxResults && req.MaxResults > 0 {
			break
		}
		log.Printf("🔍 %s: searching %q in %q", site.Name(), keyword, req.Location)

		driver := pagination.New(&searchSource{site: site, keyword: keyword}, budget)
		for {
			page, ok, err := driver.Next(ctx)
			if err != nil {
				log.Printf("⚠️ %s: %v", site.Name(), err)
				if site.IsFatal(err) {
					if rerr := site.Recover(); rerr != nil {
						log.Printf("❌ %s: session rebuild failed: %v", site.Name(), rerr)
						return collected, nil
					}
					//the failed page died with the session; resume the walk
					//at the one after it
					resumed := pagination.New(&searchSource{site: site, keyword: keyword}, budget)
					resumed.Resume(driver.Visited() + 2)
					driver = resumed
					continue
				}
				break //this keyword's sequence is exhausted, records stand
			}
			if !ok {
				break
			}
			log.Printf("  📄 Page %d: %d cards", page.Number, page.Cards)

			metas := collectCards(site, keyword)
			records := fetchDetails(ctx, site, req, keyword, metas)

			for _, rec := range records {
				if seen[rec.URL] {
					continue
				}
				seen[rec.URL] = true
				collected = append(collected, rec)
				if req.MaxResults > 0 && len(collected) >= req.MaxResults {
					return collected, nil
				}
			}
		}
	}
	return collected, nil
}

// collectCards is Phase 1: every visible card becomes RawCardMetadata or is
// discarded. A fatal error mid-loop rebuilds the session and keeps what was
// already read.
func collectCards(site Site, keyword string) []models.RawCardMetadata {
	cards, err := site.Cards()
	if err != nil {
		log.Printf("  ⚠️ %s: could not enumerate cards: %v", site.Name(), err)
		if site.IsFatal(err) {
			if rerr := site.Recover(); rerr != nil {
				log.Printf("  ❌ %s: session rebuild failed: %v", site.Name(), rerr)
			}
		}
		return nil
	}

	var metas []models.RawCardMetadata
	for i, card := range cards {
		meta, err := card.Meta(keyword)
		if err != nil {
			if site.IsFatal(err) {
				log.Printf("  💥 %s: session died on card %d, rebuilding...", site.Name(), i+1)
				if rerr := site.Recover(); rerr != nil {
					log.Printf("  ❌ %s: session rebuild failed: %v", site.Name(), rerr)
				}
				break //remaining cards on this page are gone with the session
			}
			continue
		}
		//no resolvable title or absolute URL: not worth a detail visit
		if meta.Title == "" || meta.DetailURL == "" {
			continue
		}
		metas = append(metas, meta)
	}
	return metas
}

// fetchDetails is Phase 2: each candidate gets a bounded-retry description
// fetch; exhaustion degrades to an empty description rather than dropping
// the candidate.
func fetchDetails(ctx context.Context, site Site, req Request, keyword string, metas []models.RawCardMetadata) []models.JobRecord {
	policy := DefaultDetailRetry(func(err error) bool { return !site.IsFatal(err) })
	//back off no faster than the configured page jitter floor
	if req.DelayMinMs > 0 {
		policy.Backoff = time.Duration(req.DelayMinMs) * time.Millisecond
	}

	var records []models.JobRecord
	for _, meta := range metas {
		var description string
		err := policy.Do(ctx, func() error {
			var ferr error
			description, ferr = site.FetchDescription(meta)
			return ferr
		})
		if err != nil {
			if site.IsFatal(err) {
				log.Printf("  💥 %s: session died fetching detail, rebuilding...", site.Name())
				if rerr := site.Recover(); rerr != nil {
					log.Printf("  ❌ %s: session rebuild failed: %v", site.Name(), rerr)
				}
			}
			//kept with an empty description, not dropped
			description = ""
		}

		if site.ClientFiltered() && !MatchesKeyword(keyword, meta.Title+" "+description) {
			log.Printf("  🚫 Not relevant to %q: %s", keyword, meta.Title)
			continue
		}

		records = append(records, candidateRecord(meta, description))
	}
	return records
}

func candidateRecord(meta models.RawCardMetadata, description string) models.JobRecord {
	company := meta.Company
	if company == "" {
		company = "Unknown"
	}
	location := meta.Location
	if location == "" {
		location = "Remote"
	}
	salary := meta.Salary
	if salary == "" {
		salary = "N/A"
	}

	return models.JobRecord{
		Title:       meta.Title,
		Company:     company,
		Location:    location,
		State:       NormalizeState(location),
		Salary:      salary,
		URL:         meta.DetailURL,
		Site:        meta.SourceSite,
		SearchTerm:  meta.SearchKeyword,
		Description: description,
		PostedDate:  time.Now().UTC(),
		Status:      models.StatusNew,
	}
}
