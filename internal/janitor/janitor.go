// Retention sweep over stored listings: duplicate collapse, age-based purge
// and a rolling liveness re-check of whatever the sources still claim to
// offer. A listing a user acted on is archived, never deleted.

package janitor

import (
	"context"
	"fmt"
	"log"

	"go-jobharvest-automation/internal/models"
)

type Store interface {
	RemoveDuplicateURLs(ctx context.Context) (int64, error)
	ArchiveStale(ctx context.Context, days int) (int64, error)
	DeleteStale(ctx context.Context, days int) (int64, error)
	JobsNeedingVerification(ctx context.Context, staleDays, batch int) ([]models.JobRecord, error)
	HasUserAction(ctx context.Context, jobID string) (bool, error)
	ArchiveJob(ctx context.Context, jobID string) error
	DeleteJob(ctx context.Context, jobID string) error
	MarkVerified(ctx context.Context, jobID string) error
}

// Prober answers whether the listing at url is still live on its source.
type Prober interface {
	IsExpired(ctx context.Context, url string) bool
}

type Options struct {
	RetentionDays   int
	VerifyAfterDays int
	VerifyBatch     int
}

// Report is one sweep's outcome.
type Report struct {
	DuplicatesRemoved int64
	Archived          int64
	Deleted           int64
	Verified          int
	ExpiredArchived   int
	ExpiredDeleted    int
}

type Janitor struct {
	store Store
	probe Prober
	opts  Options
}

func New(store Store, probe Prober, opts Options) *Janitor {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 15
	}
	if opts.VerifyAfterDays <= 0 {
		opts.VerifyAfterDays = 7
	}
	if opts.VerifyBatch <= 0 {
		opts.VerifyBatch = 100
	}
	return &Janitor{store: store, probe: probe, opts: opts}
}

// Run executes one full sweep. Each stage is independent; a stage failing
// does not stop the ones after it.
func (j *Janitor) Run(ctx context.Context) (Report, error) {
	log.Println("🧼 Running retention sweep...")
	var report Report
	var firstErr error

	dups, err := j.store.RemoveDuplicateURLs(ctx)
	if err != nil {
		log.Printf("⚠️ Duplicate sweep failed: %v", err)
		firstErr = err
	}
	report.DuplicatesRemoved = dups

	archived, err := j.store.ArchiveStale(ctx, j.opts.RetentionDays)
	if err != nil {
		log.Printf("⚠️ Archive stage failed: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	report.Archived = archived

	deleted, err := j.store.DeleteStale(ctx, j.opts.RetentionDays)
	if err != nil {
		log.Printf("⚠️ Delete stage failed: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	report.Deleted = deleted

	if err := j.verifyBatch(ctx, &report); err != nil && firstErr == nil {
		firstErr = err
	}

	log.Printf("✅ Sweep complete: %d dups, %d archived, %d deleted, %d verified",
		report.DuplicatesRemoved, report.Archived, report.Deleted, report.Verified)
	return report, firstErr
}

// verifyBatch re-checks a batch of live listings against their sources. An
// expired listing follows the same referenced-or-not split as the age purge.
func (j *Janitor) verifyBatch(ctx context.Context, report *Report) error {
	jobs, err := j.store.JobsNeedingVerification(ctx, j.opts.VerifyAfterDays, j.opts.VerifyBatch)
	if err != nil {
		log.Printf("⚠️ Could not load verification batch: %v", err)
		return err
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !j.probe.IsExpired(ctx, job.URL) {
			if err := j.store.MarkVerified(ctx, job.ID); err != nil {
				log.Printf("⚠️ Could not mark %s verified: %v", job.URL, err)
			}
			report.Verified++
			continue
		}

		referenced, err := j.store.HasUserAction(ctx, job.ID)
		if err != nil {
			//cannot tell, keep the row and retry next sweep
			log.Printf("⚠️ Could not check references for %s: %v", job.URL, err)
			continue
		}
		if referenced {
			if err := j.store.ArchiveJob(ctx, job.ID); err != nil {
				log.Printf("⚠️ Could not archive %s: %v", job.URL, err)
				continue
			}
			log.Printf("📦 Archived expired job: %s", job.URL)
			report.ExpiredArchived++
		} else {
			if err := j.store.DeleteJob(ctx, job.ID); err != nil {
				log.Printf("⚠️ Could not delete %s: %v", job.URL, err)
				continue
			}
			log.Printf("🗑️ Deleted expired job: %s", job.URL)
			report.ExpiredDeleted++
		}
	}
	return nil
}

func (r Report) String() string {
	return fmt.Sprintf("dups=%d archived=%d deleted=%d verified=%d expired(archived=%d deleted=%d)",
		r.DuplicatesRemoved, r.Archived, r.Deleted, r.Verified, r.ExpiredArchived, r.ExpiredDeleted)
}
