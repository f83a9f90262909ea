// Lazily walks result pages for one (site, keyword) pair. The sequence is
// finite and non-restartable: once a stop condition fires the driver stays
// exhausted.

package pagination

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Source is the site-specific side of pagination: how to reach page n, how
// many listing cards it shows, and whether a next control exists.
type Source interface {
	GotoPage(n int) error
	CardCount() (int, error)
	// NextAvailable reports whether the "next" control is present and
	// enabled. Sources that paginate purely by URL always return true and
	// rely on the zero-card stop.
	NextAvailable() (bool, error)
}

// Budget bounds one pagination run. Jitter is configuration, not a constant.
type Budget struct {
	MaxPages   int
	Deadline   time.Time
	DelayMinMs int
	DelayMaxMs int
}

// Page is one visited result page.
type Page struct {
	Number int
	Cards  int
}

type Driver struct {
	src     Source
	budget  Budget
	visited int
	done    bool
	sleep   func(time.Duration)
}

func New(src Source, budget Budget) *Driver {
	if budget.MaxPages <= 0 {
		budget.MaxPages = 1
	}
	return &Driver{src: src, budget: budget, sleep: time.Sleep}
}

// Next visits the next result page. ok is false once the sequence is
// exhausted: maxPages reached, deadline passed, the previous page had zero
// cards, or the next control was missing. A navigation error also exhausts
// the driver; whatever was collected so far stands.
func (d *Driver) Next(ctx context.Context) (Page, bool, error) {
	if d.done {
		return Page{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		d.done = true
		return Page{}, false, nil
	}
	if !d.budget.Deadline.IsZero() && time.Now().After(d.budget.Deadline) {
		d.done = true
		return Page{}, false, nil
	}

	number := d.visited + 1
	if number > d.budget.MaxPages {
		d.done = true
		return Page{}, false, nil
	}

	//pause between pages, not before the first one
	if number > 1 {
		d.sleep(d.jitter())
	}

	if err := d.src.GotoPage(number); err != nil {
		d.done = true
		return Page{}, false, fmt.Errorf("goto page %d: %w", number, err)
	}
	d.visited = number

	cards, err := d.src.CardCount()
	if err != nil {
		d.done = true
		return Page{}, false, fmt.Errorf("count cards on page %d: %w", number, err)
	}
	if cards == 0 {
		//the empty page counts as visited, then the run ends
		d.done = true
		return Page{Number: number, Cards: 0}, true, nil
	}

	if next, err := d.src.NextAvailable(); err == nil && !next {
		d.done = true
	}
	return Page{Number: number, Cards: cards}, true, nil
}

// Visited reports how many pages were actually reached.
func (d *Driver) Visited() int {
	return d.visited
}

// Resume fast-forwards a fresh driver so its next page is from. Pages before
// from still count against MaxPages; a session rebuilt mid-walk picks up
// where the dead one stopped instead of starting over.
func (d *Driver) Resume(from int) {
	if from > d.visited+1 {
		d.visited = from - 1
	}
}

func (d *Driver) jitter() time.Duration {
	min, max := d.budget.DelayMinMs, d.budget.DelayMaxMs
	if min <= 0 {
		min = 500
	}
	if max <= min {
		max = min + 1
	}
	ms := rand.Intn(max-min) + min
	return time.Duration(ms) * time.Millisecond
}
