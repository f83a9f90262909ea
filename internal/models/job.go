package models

import (
	"time"
)

type JobStatus string

const (
	StatusNew      JobStatus = "new"
	StatusArchived JobStatus = "archived"
)

// RawCardMetadata is what Phase 1 pulls off a listing card. It lives just
// long enough to decide whether the card is worth a detail visit.
type RawCardMetadata struct {
	Title         string
	Company       string
	Location      string
	Salary        string
	DetailURL     string
	SourceSite    string
	SearchKeyword string
}

// JobRecord is the canonical persisted representation of one listing.
// URL is the unique key: at most one live record per URL.
type JobRecord struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Company         string              `json:"company"`
	Location        string              `json:"job_location"`
	State           string              `json:"job_state"`
	PostedDate      time.Time           `json:"date"`
	Site            string              `json:"site"`
	Description     string              `json:"job_description"`
	Salary          string              `json:"salary"`
	URL             string              `json:"url"`
	Applied         bool                `json:"applied"`
	Saved           bool                `json:"saved"`
	SearchTerm      string              `json:"search_term"`
	Skills          []string            `json:"skills"`
	SkillsByCategory map[string][]string `json:"skills_by_category"`
	Category        *string             `json:"category,omitempty"`
	Priority        int                 `json:"priority"`
	Status          JobStatus           `json:"status"`
	InsertedAt      time.Time           `json:"inserted_at"`
	LastVerified    *time.Time          `json:"last_verified,omitempty"`
	ArchivedAt      *time.Time          `json:"archived_at,omitempty"`
	UserID          *string             `json:"user_id,omitempty"`
}

// RunRequest is the invocation payload consumed from the HTTP surface.
type RunRequest struct {
	Location   string   `json:"location"`
	Days       int      `json:"days"`
	Keywords   []string `json:"keywords"`
	MaxResults int      `json:"max_results"`
	Headless   bool     `json:"headless"`
}

// RunResult is always structured: a degraded run is Success=true with a
// lower count, never a bare error.
type RunResult struct {
	Success         bool    `json:"success"`
	JobsFound       int     `json:"jobs_found"`
	JobsSaved       int     `json:"jobs_saved"`
	DurationSeconds float64 `json:"duration_seconds"`
	Message         string  `json:"message"`
	Status          string  `json:"status"`
	ScraperName     string  `json:"scraper_name,omitempty"`
}
