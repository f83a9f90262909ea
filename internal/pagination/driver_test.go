package pagination

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	cards    []int //cards per page, 0-indexed
	hasNext  []bool
	gotoErr  map[int]error
	visited  []int
}

func (f *fakeSource) GotoPage(n int) error {
	if err := f.gotoErr[n]; err != nil {
		return err
	}
	f.visited = append(f.visited, n)
	return nil
}

func (f *fakeSource) CardCount() (int, error) {
	return f.cards[len(f.visited)-1], nil
}

func (f *fakeSource) NextAvailable() (bool, error) {
	if f.hasNext == nil {
		return true, nil
	}
	return f.hasNext[len(f.visited)-1], nil
}

func drain(t *testing.T, d *Driver) []Page {
	t.Helper()
	var pages []Page
	for {
		pg, ok, err := d.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			return pages
		}
		pages = append(pages, pg)
	}
}

func noDelay(d *Driver) {
	d.sleep = func(time.Duration) {}
}

func TestDriver_StopsOnEmptyPage(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 0, 5, 5}}
	d := New(src, Budget{MaxPages: 10})
	noDelay(d)

	pages := drain(t, d)

	//the empty page is visited, then the run ends: exactly 3 pages
	require.Len(t, pages, 3)
	assert.Equal(t, 3, d.Visited())
	assert.Equal(t, []int{1, 2, 3}, src.visited)
	assert.Equal(t, 0, pages[2].Cards)
}

func TestDriver_ResumeSkipsAlreadyWalkedPages(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 5, 5, 5}}
	d := New(src, Budget{MaxPages: 4})
	noDelay(d)
	d.Resume(3)

	pages := drain(t, d)

	//skipped pages still count against the budget
	require.Len(t, pages, 2)
	assert.Equal(t, []int{3, 4}, src.visited)
	assert.Equal(t, 3, pages[0].Number)
}

func TestDriver_ResumeNeverRewinds(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 5}}
	d := New(src, Budget{MaxPages: 3})
	noDelay(d)

	_, ok, err := d.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	//a resume target at or before the walk's position is a no-op
	d.Resume(1)
	pages := drain(t, d)
	require.Len(t, pages, 2)
	assert.Equal(t, []int{1, 2, 3}, src.visited)
}

func TestDriver_StopsOnMaxPages(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 5, 5, 5}}
	d := New(src, Budget{MaxPages: 2})
	noDelay(d)

	pages := drain(t, d)
	require.Len(t, pages, 2)
	assert.Equal(t, []int{1, 2}, src.visited)
}

func TestDriver_StopsOnMissingNextControl(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 5}, hasNext: []bool{true, false, true}}
	d := New(src, Budget{MaxPages: 10})
	noDelay(d)

	pages := drain(t, d)
	require.Len(t, pages, 2)
}

func TestDriver_NotRestartable(t *testing.T) {
	src := &fakeSource{cards: []int{5}}
	d := New(src, Budget{MaxPages: 1})
	noDelay(d)

	drain(t, d)
	_, ok, err := d.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []int{1}, src.visited)
}

func TestDriver_NavigationErrorExhausts(t *testing.T) {
	src := &fakeSource{
		cards:   []int{5, 5},
		gotoErr: map[int]error{2: errors.New("net::ERR_CONNECTION_RESET")},
	}
	d := New(src, Budget{MaxPages: 5})
	noDelay(d)

	_, ok, err := d.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = d.Next(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)

	_, ok, err = d.Next(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDriver_DeadlineStops(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5}}
	d := New(src, Budget{MaxPages: 5, Deadline: time.Now().Add(-time.Second)})
	noDelay(d)

	_, ok, err := d.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDriver_ContextCancelStops(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5}}
	d := New(src, Budget{MaxPages: 5})
	noDelay(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := d.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDriver_DelayBetweenPagesOnly(t *testing.T) {
	src := &fakeSource{cards: []int{5, 5, 0}}
	d := New(src, Budget{MaxPages: 5, DelayMinMs: 10, DelayMaxMs: 20})

	var sleeps []time.Duration
	d.sleep = func(dur time.Duration) { sleeps = append(sleeps, dur) }

	drain(t, d)

	//no delay before page 1, one before each of pages 2 and 3
	require.Len(t, sleeps, 2)
	for _, s := range sleeps {
		assert.GreaterOrEqual(t, s, 10*time.Millisecond)
		assert.Less(t, s, 20*time.Millisecond)
	}
}
