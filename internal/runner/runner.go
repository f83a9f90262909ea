// Orchestrates one end-to-end run: browser session, crawl, skill tagging,
// dedup ingest, CSV snapshot, operator report. A run always produces a
// structured result; a degraded crawl is a success with lower counts.

package runner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-jobharvest-automation/internal/browser"
	"go-jobharvest-automation/internal/config"
	"go-jobharvest-automation/internal/export"
	"go-jobharvest-automation/internal/ingest"
	"go-jobharvest-automation/internal/models"
	"go-jobharvest-automation/internal/scraper"
	"go-jobharvest-automation/internal/skills"
)

// Reporter is the optional operator notification channel.
type Reporter interface {
	SendRunSummary(result models.RunResult) error
}

type Runner struct {
	cfg      *config.Config
	adapters map[string]scraper.Adapter
	ingestor *ingest.Ingestor
	matrix   *skills.Matrix
	exporter *export.Writer
	reporter Reporter

	acquire func(browser.Options) (*browser.Session, error)
}

func New(cfg *config.Config, adapters []scraper.Adapter, ingestor *ingest.Ingestor, matrix *skills.Matrix) *Runner {
	byName := make(map[string]scraper.Adapter, len(adapters))
	for _, a := range adapters {
		byName[strings.ToLower(a.Name())] = a
	}
	return &Runner{
		cfg:      cfg,
		adapters: byName,
		ingestor: ingestor,
		matrix:   matrix,
		exporter: export.NewWriter(cfg.OutputFolder),
		acquire:  browser.Acquire,
	}
}

// WithReporter attaches the notification channel; reporting failures are
// logged and swallowed.
func (r *Runner) WithReporter(rep Reporter) *Runner {
	r.reporter = rep
	return r
}

// Sites lists the registered adapter names.
func (r *Runner) Sites() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// Run executes one site. Unknown sites are the only hard error surface;
// everything downstream degrades into the result payload.
func (r *Runner) Run(ctx context.Context, site string, req models.RunRequest) models.RunResult {
	started := time.Now()
	adapter, ok := r.adapters[strings.ToLower(site)]
	if !ok {
		return models.RunResult{
			Success: false,
			Status:  "error",
			Message: fmt.Sprintf("unknown site %q", site),
		}
	}

	result := models.RunResult{ScraperName: adapter.Name(), Status: "completed", Success: true}

	sess, err := r.acquire(browser.Options{
		Headless:       req.Headless,
		TimeoutSeconds: 30,
		SkipChallenge:  r.cfg.SkipChallenge,
		CookiesPath:    r.cfg.CookiesPath,
	})
	if err != nil {
		result.Success = false
		result.Status = "error"
		result.Message = fmt.Sprintf("browser session: %v", err)
		result.DurationSeconds = time.Since(started).Seconds()
		r.report(result)
		return result
	}
	defer sess.Close()

	records, err := adapter.Crawl(ctx, sess, r.crawlRequest(req))
	if err != nil {
		//partial results still count, the message carries the cause
		log.Printf("⚠️ %s crawl degraded: %v", adapter.Name(), err)
		result.Message = err.Error()
	}
	result.JobsFound = len(records)

	r.tagSkills(records)

	stats := r.ingestor.UpsertAll(ctx, records)
	result.JobsSaved = stats.Inserted

	if _, err := r.exporter.WriteJobs(records, strings.ToLower(adapter.Name())); err != nil {
		log.Printf("⚠️ CSV export failed: %v", err)
	}

	result.DurationSeconds = time.Since(started).Seconds()
	if result.Message == "" {
		result.Message = fmt.Sprintf("%d found, %d new", result.JobsFound, result.JobsSaved)
	}
	r.report(result)
	return result
}

// RunAll runs every registered site sequentially; one browser profile at a
// time keeps the anti-bot footprint small.
func (r *Runner) RunAll(ctx context.Context, req models.RunRequest) []models.RunResult {
	results := make([]models.RunResult, 0, len(r.adapters))
	for name := range r.adapters {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.Run(ctx, name, req))
	}
	return results
}

func (r *Runner) crawlRequest(req models.RunRequest) scraper.Request {
	out := scraper.Request{
		Location:   req.Location,
		Days:       req.Days,
		Keywords:   req.Keywords,
		MaxResults: req.MaxResults,
		MaxPages:   r.cfg.MaxPages,
		DelayMinMs: r.cfg.PageDelayMin,
		DelayMaxMs: r.cfg.PageDelayMax,
	}
	if out.Location == "" {
		out.Location = r.cfg.Location
	}
	if out.Days <= 0 {
		out.Days = r.cfg.Days
	}
	if len(out.Keywords) == 0 {
		out.Keywords = r.cfg.Keywords
	}
	if out.MaxResults <= 0 {
		out.MaxResults = r.cfg.MaxResults
	}
	return out
}

func (r *Runner) tagSkills(records []models.JobRecord) {
	if r.matrix == nil {
		return
	}
	for i := range records {
		text := records[i].Title + " " + records[i].Description
		records[i].Skills = skills.Sorted(r.matrix.TagFlat(text))
		records[i].SkillsByCategory = skills.SortedByCategory(r.matrix.TagByCategory(text))
	}
}

func (r *Runner) report(result models.RunResult) {
	if r.reporter == nil {
		return
	}
	if err := r.reporter.SendRunSummary(result); err != nil {
		log.Printf("⚠️ Could not send run summary: %v", err)
	}
}
