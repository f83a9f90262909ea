// Turns crawl candidates into stored rows. Deduplication is delegated to
// the database's unique url constraint, so concurrent writers and repeated
// runs converge on exactly one row per listing with no local state.

package ingest

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"go-jobharvest-automation/internal/models"
)

// Store is the persistence side of ingestion. InsertJob returns false when
// the URL already exists; the first stored version of a listing wins.
type Store interface {
	InsertJob(ctx context.Context, job *models.JobRecord) (bool, error)
}

// Outcome classifies what happened to one candidate.
type Outcome int

const (
	Inserted Outcome = iota
	Skipped
	Rejected
	Failed
)

// Stats counts one ingestion run.
type Stats struct {
	Inserted int
	Skipped  int
	Rejected int
	Failed   int
}

func (s Stats) Total() int {
	return s.Inserted + s.Skipped + s.Rejected + s.Failed
}

type Ingestor struct {
	store Store
}

func New(store Store) *Ingestor {
	return &Ingestor{store: store}
}

// Upsert validates and stores one candidate. Rejected candidates never
// reach the database; a Skipped candidate hit the unique url constraint.
func (i *Ingestor) Upsert(ctx context.Context, job *models.JobRecord) (Outcome, error) {
	if err := validate(job); err != nil {
		return Rejected, err
	}

	inserted, err := i.store.InsertJob(ctx, job)
	if err != nil {
		return Failed, fmt.Errorf("upsert %s: %w", job.URL, err)
	}
	if !inserted {
		return Skipped, nil
	}
	return Inserted, nil
}

// UpsertAll runs a whole candidate batch, containing per-record failures.
func (i *Ingestor) UpsertAll(ctx context.Context, jobs []models.JobRecord) Stats {
	var stats Stats
	for idx := range jobs {
		outcome, err := i.Upsert(ctx, &jobs[idx])
		switch outcome {
		case Rejected:
			stats.Rejected++
			log.Printf("🚫 Rejected %q: %v", jobs[idx].Title, err)
		case Failed:
			stats.Failed++
			log.Printf("❌ Failed to store %q: %v", jobs[idx].Title, err)
		case Skipped:
			stats.Skipped++
		default:
			stats.Inserted++
		}
	}
	log.Printf("📊 Ingested %d candidates: %d new, %d known, %d rejected",
		stats.Total(), stats.Inserted, stats.Skipped, stats.Rejected)
	return stats
}

func validate(job *models.JobRecord) error {
	if job.Title == "" {
		return fmt.Errorf("missing title")
	}
	if job.URL == "" {
		return fmt.Errorf("missing url")
	}
	//the url is the record key; anything not absolute http(s) cannot key a row
	u, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("unparseable url %q: %w", job.URL, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q is not an absolute http(s) url", job.URL)
	}
	if job.Site == "" {
		return fmt.Errorf("missing source site")
	}
	return nil
}
