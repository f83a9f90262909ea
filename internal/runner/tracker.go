package runner

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go-jobharvest-automation/internal/models"
)

// RunState is the lifecycle of one tracked run.
type RunState string

const (
	StateRunning  RunState = "running"
	StateFinished RunState = "finished"
)

// Run is one tracked invocation.
type Run struct {
	ID        string             `json:"id"`
	Site      string             `json:"site"`
	State     RunState           `json:"state"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	Results   []models.RunResult `json:"results,omitempty"`
}

// Tracker hands out run IDs and remembers outcomes so the HTTP surface can
// answer status queries for async runs.
type Tracker struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewTracker() *Tracker {
	return &Tracker{runs: map[string]*Run{}}
}

func (t *Tracker) Start(site string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.NewString()
	t.runs[id] = &Run{
		ID:        id,
		Site:      site,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
	return id
}

func (t *Tracker) Finish(id string, results ...models.RunResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	run.State = StateFinished
	run.EndedAt = &now
	run.Results = results
}

// Get returns a copy so callers never race the writer.
func (t *Tracker) Get(id string) (Run, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	run, ok := t.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// Active counts runs still in flight.
func (t *Tracker) Active() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, run := range t.runs {
		if run.State == StateRunning {
			n++
		}
	}
	return n
}
