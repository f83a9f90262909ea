// Define an interface for all site adapters
// Ensure consistency

package scraper

import (
	"context"

	"go-jobharvest-automation/internal/browser"
	"go-jobharvest-automation/internal/models"
)

// Request is one crawl invocation's search scope and budgets.
type Request struct {
	Location   string
	Days       int
	Keywords   []string
	MaxPages   int
	MaxResults int
	//jitter between result pages, milliseconds
	DelayMinMs int
	DelayMaxMs int
}

//Adapter defines the contract every site-specific crawl strategy implements
type Adapter interface {
	//Crawl produces candidate records for the request, in page-then-card
	//order. Partial failure degrades the result, it never empties it.
	Crawl(ctx context.Context, sess *browser.Session, req Request) ([]models.JobRecord, error)

	//Name is the site name (Indeed, Dice, ...)
	Name() string
}
