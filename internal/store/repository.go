package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobharvest-automation/internal/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- JOB OPERATIONS ----------------

// InsertJob stores a new listing. The url column is unique and the first
// inserted row wins: re-crawls of a known listing are skipped, never
// overwritten. Returns false when the URL already existed.
func (r *Repository) InsertJob(ctx context.Context, job *models.JobRecord) (bool, error) {
	//skills_by_category is jsonb; encode explicitly so exec mode never has
	//to guess a wire type for the map
	byCategory, err := json.Marshal(job.SkillsByCategory)
	if err != nil {
		return false, fmt.Errorf("encode skills: %w", err)
	}

	query := `
		INSERT INTO jobs (title, company, job_location, job_state, date, site,
			job_description, salary, url, applied, saved, search_term,
			skills, skills_by_category, category, priority, status, inserted_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), $18)
		ON CONFLICT (url) DO NOTHING
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Location, job.State, job.PostedDate, job.Site,
		job.Description, job.Salary, job.URL, job.Applied, job.Saved, job.SearchTerm,
		job.Skills, byCategory, job.Category, job.Priority, job.Status, job.UserID,
	).Scan(&job.ID)

	if err == pgx.ErrNoRows {
		//conflict: someone got there first
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert job: %w", err)
	}
	return true, nil
}

func (r *Repository) GetJobByURL(ctx context.Context, url string) (*models.JobRecord, error) {
	var job models.JobRecord
	query := `
		SELECT id, title, company, job_location, job_state, date, site,
			job_description, salary, url, applied, saved, search_term, status
		FROM jobs WHERE url = $1`
	err := r.db.QueryRow(ctx, query, url).Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.State,
		&job.PostedDate, &job.Site, &job.Description, &job.Salary, &job.URL,
		&job.Applied, &job.Saved, &job.SearchTerm, &job.Status,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job by url: %w", err)
	}
	return &job, nil
}

// CountBySite feeds the stats endpoint.
func (r *Repository) CountBySite(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT site, COUNT(*) FROM jobs GROUP BY site`)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs by site: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var site string
		var n int
		if err := rows.Scan(&site, &n); err != nil {
			return nil, fmt.Errorf("failed to scan site count: %w", err)
		}
		counts[site] = n
	}
	return counts, rows.Err()
}

// ---------------- RETENTION OPERATIONS ----------------

// RemoveDuplicateURLs keeps only the newest inserted_at for each URL.
func (r *Repository) RemoveDuplicateURLs(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM jobs a
		USING (
			SELECT url, MAX(inserted_at) AS latest
			FROM jobs
			GROUP BY url
			HAVING COUNT(*) > 1
		) dups
		WHERE a.url = dups.url
		  AND a.inserted_at < dups.latest`)
	if err != nil {
		return 0, fmt.Errorf("failed to remove duplicate urls: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ArchiveStale archives jobs past the retention window that some user has
// acted on. Archived rows keep their history but leave the live set.
func (r *Repository) ArchiveStale(ctx context.Context, days int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE jobs
		SET archived_at = NOW()
		WHERE date < CURRENT_DATE - make_interval(days => $1)
		  AND id IN (SELECT job_id FROM user_job_status)
		  AND archived_at IS NULL`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to archive stale jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteStale removes jobs past the retention window that no user ever
// touched.
func (r *Repository) DeleteStale(ctx context.Context, days int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM jobs
		WHERE date < CURRENT_DATE - make_interval(days => $1)
		  AND archived_at IS NULL
		  AND id NOT IN (SELECT job_id FROM user_job_status)`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// JobsNeedingVerification returns a batch of live jobs whose liveness check
// is due.
func (r *Repository) JobsNeedingVerification(ctx context.Context, staleDays, batch int) ([]models.JobRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, url FROM jobs
		WHERE archived_at IS NULL
		  AND (last_verified IS NULL OR last_verified < NOW() - make_interval(days => $1))
		LIMIT $2`, staleDays, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs for verification: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobRecord
	for rows.Next() {
		var job models.JobRecord
		if err := rows.Scan(&job.ID, &job.URL); err != nil {
			return nil, fmt.Errorf("failed to scan verification row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// HasUserAction reports whether any user saved, applied to, or otherwise
// referenced the job.
func (r *Repository) HasUserAction(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM user_job_status WHERE job_id = $1 LIMIT 1`, jobID).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user action: %w", err)
	}
	return true, nil
}

func (r *Repository) ArchiveJob(ctx context.Context, jobID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE jobs SET archived_at = NOW() WHERE id = $1 AND archived_at IS NULL`, jobID)
	if err != nil {
		return fmt.Errorf("failed to archive job: %w", err)
	}
	return nil
}

func (r *Repository) DeleteJob(ctx context.Context, jobID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

func (r *Repository) MarkVerified(ctx context.Context, jobID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE jobs SET last_verified = NOW() WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job verified: %w", err)
	}
	return nil
}
