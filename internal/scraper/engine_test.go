package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobharvest-automation/internal/models"
)

type fakeCard struct {
	meta models.RawCardMetadata
	err  error
}

func (c fakeCard) Meta(keyword string) (models.RawCardMetadata, error) {
	if c.err != nil {
		return models.RawCardMetadata{}, c.err
	}
	m := c.meta
	m.SearchKeyword = keyword
	return m, nil
}

type fakeSite struct {
	pages          [][]Card
	clientFiltered bool
	failDetails    map[string]error
	descriptions   map[string]string
	recovered      int
	current        int
	navErr         map[int]error
}

func (s *fakeSite) Name() string         { return "Fake" }
func (s *fakeSite) ClientFiltered() bool { return s.clientFiltered }

func (s *fakeSite) OpenSearch(keyword string, pageNum int) error {
	if err := s.navErr[pageNum]; err != nil {
		return err
	}
	s.current = pageNum
	return nil
}

func (s *fakeSite) CardCount() (int, error) {
	if s.current > len(s.pages) {
		return 0, nil
	}
	return len(s.pages[s.current-1]), nil
}

func (s *fakeSite) Cards() ([]Card, error) {
	if s.current > len(s.pages) {
		return nil, nil
	}
	return s.pages[s.current-1], nil
}

func (s *fakeSite) NextAvailable() (bool, error) { return true, nil }

func (s *fakeSite) FetchDescription(meta models.RawCardMetadata) (string, error) {
	if err := s.failDetails[meta.DetailURL]; err != nil {
		return "", err
	}
	return s.descriptions[meta.DetailURL], nil
}

func (s *fakeSite) Recover() error {
	s.recovered++
	return nil
}

func (s *fakeSite) IsFatal(err error) bool {
	return err != nil && strings.Contains(err.Error(), "target closed")
}

func card(title, url string) Card {
	return fakeCard{meta: models.RawCardMetadata{
		Title:      title,
		Company:    "Acme",
		Location:   "Remote",
		DetailURL:  url,
		SourceSite: "Fake",
	}}
}

func quickRequest() Request {
	return Request{
		Keywords:   []string{"go developer"},
		Location:   "remote",
		MaxPages:   10,
		MaxResults: 100,
		DelayMinMs: 1,
		DelayMaxMs: 2,
	}
}

func TestCrawl_TwoPhaseCollection(t *testing.T) {
	//two pages of five cards, two cards without a usable URL, one detail
	//fetch that never succeeds
	page1 := []Card{
		card("Backend Engineer", "https://fake.example/jobs/1"),
		card("Go Developer", "https://fake.example/jobs/2"),
		card("Platform Engineer", ""), //no URL, discarded
		card("SRE", "https://fake.example/jobs/4"),
		card("Cloud Engineer", "https://fake.example/jobs/5"),
	}
	page2 := []Card{
		card("Staff Engineer", "https://fake.example/jobs/6"),
		card("", "https://fake.example/jobs/7"), //no title, discarded
		card("Data Engineer", "https://fake.example/jobs/8"),
		card("DevOps Engineer", "https://fake.example/jobs/9"),
		card("Infra Engineer", "https://fake.example/jobs/10"),
	}

	site := &fakeSite{
		pages:        [][]Card{page1, page2},
		descriptions: map[string]string{},
		failDetails: map[string]error{
			"https://fake.example/jobs/4": errors.New("timeout"),
		},
	}
	for _, u := range []string{"1", "2", "5", "6", "8", "9", "10"} {
		site.descriptions["https://fake.example/jobs/"+u] = "desc " + u
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)

	//8 usable cards survive; the failed detail degrades to empty description
	require.Len(t, records, 8)
	byURL := map[string]models.JobRecord{}
	for _, r := range records {
		byURL[r.URL] = r
	}
	assert.Equal(t, "", byURL["https://fake.example/jobs/4"].Description)
	assert.Equal(t, "desc 2", byURL["https://fake.example/jobs/2"].Description)
	assert.Equal(t, "go developer", records[0].SearchTerm)
}

func TestCrawl_DedupsRepeatedURLsWithinRun(t *testing.T) {
	same := card("Go Developer", "https://fake.example/jobs/1")
	site := &fakeSite{
		pages:        [][]Card{{same, same}, {same}},
		descriptions: map[string]string{"https://fake.example/jobs/1": "d"},
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCrawl_MaxResultsCapsCollection(t *testing.T) {
	var cards []Card
	for i := 0; i < 20; i++ {
		cards = append(cards, card(fmt.Sprintf("Job %d", i), fmt.Sprintf("https://fake.example/jobs/%d", i)))
	}
	site := &fakeSite{pages: [][]Card{cards}, descriptions: map[string]string{}}

	req := quickRequest()
	req.MaxResults = 7
	records, err := Crawl(context.Background(), site, req)
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestCrawl_ClientFilteredDropsIrrelevant(t *testing.T) {
	site := &fakeSite{
		clientFiltered: true,
		pages: [][]Card{{
			card("Senior Go Developer", "https://fake.example/jobs/1"),
			card("Forklift Operator", "https://fake.example/jobs/2"),
		}},
		descriptions: map[string]string{
			"https://fake.example/jobs/1": "go developer role",
			"https://fake.example/jobs/2": "warehouse work",
		},
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Senior Go Developer", records[0].Title)
}

func TestCrawl_FatalCardErrorRebuildsAndKeepsCollected(t *testing.T) {
	site := &fakeSite{
		pages: [][]Card{{
			card("First", "https://fake.example/jobs/1"),
			fakeCard{err: errors.New("target closed")},
			card("Never Reached", "https://fake.example/jobs/3"),
		}},
		descriptions: map[string]string{"https://fake.example/jobs/1": "d"},
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, 1, site.recovered)
}

func TestCrawl_FatalNavigationRebuildsAndReturnsPartial(t *testing.T) {
	site := &fakeSite{
		pages: [][]Card{
			{card("First", "https://fake.example/jobs/1")},
			{card("Second", "https://fake.example/jobs/2")},
		},
		descriptions: map[string]string{"https://fake.example/jobs/1": "d"},
		navErr:       map[int]error{2: errors.New("target closed")},
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, site.recovered)
}

func TestCrawl_FatalNavigationResumesAtNextPage(t *testing.T) {
	//page 2's navigation kills the session; after the rebuild the walk
	//continues with page 3 instead of abandoning the keyword
	site := &fakeSite{
		pages: [][]Card{
			{card("First", "https://fake.example/jobs/1")},
			{card("Lost With Session", "https://fake.example/jobs/2")},
			{card("Third", "https://fake.example/jobs/3")},
		},
		descriptions: map[string]string{
			"https://fake.example/jobs/1": "d1",
			"https://fake.example/jobs/3": "d3",
		},
		navErr: map[int]error{2: errors.New("target closed")},
	}

	records, err := Crawl(context.Background(), site, quickRequest())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, "Third", records[1].Title)
	assert.Equal(t, 1, site.recovered)
}

func TestCrawl_RerunYieldsSameCandidates(t *testing.T) {
	build := func() *fakeSite {
		return &fakeSite{
			pages: [][]Card{{
				card("A", "https://fake.example/jobs/1"),
				card("B", "https://fake.example/jobs/2"),
			}},
			descriptions: map[string]string{
				"https://fake.example/jobs/1": "d1",
				"https://fake.example/jobs/2": "d2",
			},
		}
	}

	first, err := Crawl(context.Background(), build(), quickRequest())
	require.NoError(t, err)
	second, err := Crawl(context.Background(), build(), quickRequest())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}
