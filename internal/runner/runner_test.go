package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobharvest-automation/internal/browser"
	"go-jobharvest-automation/internal/config"
	"go-jobharvest-automation/internal/ingest"
	"go-jobharvest-automation/internal/models"
	"go-jobharvest-automation/internal/scraper"
	"go-jobharvest-automation/internal/skills"
)

type fakeAdapter struct {
	name    string
	records []models.JobRecord
	err     error
	gotReq  scraper.Request
}

func (a *fakeAdapter) Name() string { return a.name }
func (a *fakeAdapter) Crawl(ctx context.Context, sess *browser.Session, req scraper.Request) ([]models.JobRecord, error) {
	a.gotReq = req
	return a.records, a.err
}

type fakeJobStore struct {
	mu   sync.Mutex
	rows map[string]bool
}

func (s *fakeJobStore) InsertJob(ctx context.Context, job *models.JobRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows == nil {
		s.rows = map[string]bool{}
	}
	if s.rows[job.URL] {
		return false, nil
	}
	s.rows[job.URL] = true
	return true, nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{OutputFolder: t.TempDir()}
	cfg.ApplyDefaults()
	return cfg
}

func testMatrix() *skills.Matrix {
	return skills.NewMatrix([]skills.Category{
		{Name: "languages", Skills: []string{"go", "python"}},
		{Name: "databases", Skills: []string{"postgresql"}},
	})
}

func newTestRunner(t *testing.T, adapters ...scraper.Adapter) (*Runner, *fakeJobStore) {
	store := &fakeJobStore{}
	r := New(testConfig(t), adapters, ingest.New(store), testMatrix())
	r.acquire = func(browser.Options) (*browser.Session, error) { return &browser.Session{}, nil }
	return r, store
}

func record(title, url, desc string) models.JobRecord {
	return models.JobRecord{
		Title: title, Company: "Acme", Site: "Fake", URL: url, Description: desc,
		Status: models.StatusNew,
	}
}

func TestRun_TagsSkillsAndIngests(t *testing.T) {
	adapter := &fakeAdapter{name: "Fake", records: []models.JobRecord{
		record("Go Developer", "https://example.com/1", "We use Go and PostgreSQL daily"),
	}}
	r, store := newTestRunner(t, adapter)

	result := r.Run(context.Background(), "fake", models.RunRequest{})

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.JobsFound)
	assert.Equal(t, 1, result.JobsSaved)
	assert.True(t, store.rows["https://example.com/1"])
}

func TestRun_UnknownSite(t *testing.T) {
	r, _ := newTestRunner(t)
	result := r.Run(context.Background(), "nope", models.RunRequest{})
	assert.False(t, result.Success)
	assert.Equal(t, "error", result.Status)
}

func TestRun_DegradedCrawlStillSucceeds(t *testing.T) {
	adapter := &fakeAdapter{
		name:    "Fake",
		records: []models.JobRecord{record("A", "https://example.com/1", "")},
		err:     errors.New("page 3 never loaded"),
	}
	r, _ := newTestRunner(t, adapter)

	result := r.Run(context.Background(), "fake", models.RunRequest{})
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.JobsFound)
	assert.Contains(t, result.Message, "page 3")
}

func TestRun_RequestFallsBackToConfig(t *testing.T) {
	adapter := &fakeAdapter{name: "Fake"}
	r, _ := newTestRunner(t, adapter)

	r.Run(context.Background(), "fake", models.RunRequest{})

	assert.Equal(t, r.cfg.Location, adapter.gotReq.Location)
	assert.Equal(t, r.cfg.Keywords, adapter.gotReq.Keywords)
	assert.Equal(t, r.cfg.MaxPages, adapter.gotReq.MaxPages)
}

func TestRun_SecondRunSkipsKnownURLs(t *testing.T) {
	adapter := &fakeAdapter{name: "Fake", records: []models.JobRecord{
		record("A", "https://example.com/1", ""),
		record("B", "https://example.com/2", ""),
	}}
	r, _ := newTestRunner(t, adapter)

	first := r.Run(context.Background(), "fake", models.RunRequest{})
	assert.Equal(t, 2, first.JobsSaved)

	second := r.Run(context.Background(), "fake", models.RunRequest{})
	assert.Equal(t, 2, second.JobsFound)
	assert.Equal(t, 0, second.JobsSaved)
}

func TestRunAll_CoversEveryAdapter(t *testing.T) {
	a := &fakeAdapter{name: "SiteA"}
	b := &fakeAdapter{name: "SiteB"}
	r, _ := newTestRunner(t, a, b)

	results := r.RunAll(context.Background(), models.RunRequest{})
	require.Len(t, results, 2)
	names := []string{results[0].ScraperName, results[1].ScraperName}
	assert.ElementsMatch(t, []string{"SiteA", "SiteB"}, names)
}

func TestTracker_Lifecycle(t *testing.T) {
	tracker := NewTracker()
	id := tracker.Start("indeed")

	run, ok := tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateRunning, run.State)
	assert.Equal(t, 1, tracker.Active())

	tracker.Finish(id, models.RunResult{Success: true, JobsFound: 3})
	run, ok = tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateFinished, run.State)
	require.NotNil(t, run.EndedAt)
	require.Len(t, run.Results, 1)
	assert.Equal(t, 0, tracker.Active())

	_, ok = tracker.Get("missing")
	assert.False(t, ok)
}
