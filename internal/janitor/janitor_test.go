package janitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobharvest-automation/internal/models"
)

type fakeStore struct {
	dups       int64
	staleRef   int64
	staleUnref int64
	pending    []models.JobRecord
	referenced map[string]bool

	archived []string
	deleted  []string
	verified []string

	refErr error
}

func (s *fakeStore) RemoveDuplicateURLs(ctx context.Context) (int64, error) { return s.dups, nil }
func (s *fakeStore) ArchiveStale(ctx context.Context, days int) (int64, error) {
	return s.staleRef, nil
}
func (s *fakeStore) DeleteStale(ctx context.Context, days int) (int64, error) {
	return s.staleUnref, nil
}
func (s *fakeStore) JobsNeedingVerification(ctx context.Context, staleDays, batch int) ([]models.JobRecord, error) {
	if len(s.pending) > batch {
		return s.pending[:batch], nil
	}
	return s.pending, nil
}
func (s *fakeStore) HasUserAction(ctx context.Context, jobID string) (bool, error) {
	if s.refErr != nil {
		return false, s.refErr
	}
	return s.referenced[jobID], nil
}
func (s *fakeStore) ArchiveJob(ctx context.Context, jobID string) error {
	s.archived = append(s.archived, jobID)
	return nil
}
func (s *fakeStore) DeleteJob(ctx context.Context, jobID string) error {
	s.deleted = append(s.deleted, jobID)
	return nil
}
func (s *fakeStore) MarkVerified(ctx context.Context, jobID string) error {
	s.verified = append(s.verified, jobID)
	return nil
}

type fakeProber struct {
	expired map[string]bool
}

func (p fakeProber) IsExpired(ctx context.Context, url string) bool { return p.expired[url] }

func TestRun_ExpiredSplitsByUserReference(t *testing.T) {
	store := &fakeStore{
		pending: []models.JobRecord{
			{ID: "1", URL: "https://example.com/jobs/1"}, //expired, referenced
			{ID: "2", URL: "https://example.com/jobs/2"}, //expired, unreferenced
			{ID: "3", URL: "https://example.com/jobs/3"}, //still live
		},
		referenced: map[string]bool{"1": true},
	}
	probe := fakeProber{expired: map[string]bool{
		"https://example.com/jobs/1": true,
		"https://example.com/jobs/2": true,
	}}

	report, err := New(store, probe, Options{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, store.archived)
	assert.Equal(t, []string{"2"}, store.deleted)
	assert.Equal(t, []string{"3"}, store.verified)
	assert.Equal(t, 1, report.ExpiredArchived)
	assert.Equal(t, 1, report.ExpiredDeleted)
	assert.Equal(t, 1, report.Verified)
}

func TestRun_ReferenceCheckErrorKeepsRow(t *testing.T) {
	store := &fakeStore{
		pending: []models.JobRecord{{ID: "1", URL: "https://example.com/jobs/1"}},
		refErr:  errors.New("db down"),
	}
	probe := fakeProber{expired: map[string]bool{"https://example.com/jobs/1": true}}

	_, err := New(store, probe, Options{}).Run(context.Background())
	require.NoError(t, err)

	//neither archived nor deleted: retried next sweep
	assert.Empty(t, store.archived)
	assert.Empty(t, store.deleted)
}

func TestRun_BatchIsBounded(t *testing.T) {
	store := &fakeStore{referenced: map[string]bool{}}
	for i := 0; i < 10; i++ {
		store.pending = append(store.pending, models.JobRecord{ID: string(rune('a' + i))})
	}
	probe := fakeProber{expired: map[string]bool{}}

	report, err := New(store, probe, Options{VerifyBatch: 3}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Verified)
}

func TestContainsExpiredPhrase(t *testing.T) {
	phrases := []string{"this job has expired", "position has been filled"}

	assert.True(t, ContainsExpiredPhrase("Sorry, This Job Has EXPIRED on our site", phrases))
	assert.True(t, ContainsExpiredPhrase("the position has been filled already", phrases))
	assert.False(t, ContainsExpiredPhrase("apply now for this role", phrases))
	assert.False(t, ContainsExpiredPhrase("", phrases))
}

func TestHTTPProber_FetchErrorCountsAsExpired(t *testing.T) {
	p := NewHTTPProber([]string{"expired"}, 100)
	//nothing listens here
	assert.True(t, p.IsExpired(context.Background(), "http://127.0.0.1:1/jobs/1"))
}

func TestHTTPProber_LivePageIsNotExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Great Go Job</h1><p>Apply today</p></body></html>"))
	}))
	defer srv.Close()

	p := NewHTTPProber([]string{"this job has expired"}, 100)
	assert.False(t, p.IsExpired(context.Background(), srv.URL))
}

func TestHTTPProber_ExpiredPhraseDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>This job has expired on Indeed</p></body></html>"))
	}))
	defer srv.Close()

	p := NewHTTPProber([]string{"this job has expired"}, 100)
	assert.True(t, p.IsExpired(context.Background(), srv.URL))
}

func TestHTTPProber_GoneStatusIsExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	p := NewHTTPProber(nil, 100)
	assert.True(t, p.IsExpired(context.Background(), srv.URL))
}
