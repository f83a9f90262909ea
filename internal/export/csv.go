// Flat CSV snapshots of a crawl run, one file per run so nothing is ever
// overwritten.

package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-jobharvest-automation/internal/models"
)

type Writer struct {
	folder string
	now    func() time.Time
}

func NewWriter(folder string) *Writer {
	if folder == "" {
		folder = "job_data"
	}
	return &Writer{folder: folder, now: time.Now}
}

var header = []string{
	"title", "company", "job_location", "job_state", "date", "site",
	"salary", "url", "search_term", "skills", "status",
}

// WriteJobs saves the batch as <timestamp>_<label>.csv and returns the path.
// An empty batch writes nothing.
func (w *Writer) WriteJobs(jobs []models.JobRecord, label string) (string, error) {
	if len(jobs) == 0 {
		log.Println("⚠️ No jobs to write.")
		return "", nil
	}
	if label == "" {
		label = "jobs"
	}

	if err := os.MkdirAll(w.folder, 0755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	timestamp := w.now().Format("20060102_150405")
	path := filepath.Join(w.folder, fmt.Sprintf("%s_%s.csv", timestamp, label))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, job := range jobs {
		row := []string{
			job.Title, job.Company, job.Location, job.State,
			job.PostedDate.Format("2006-01-02"), job.Site,
			job.Salary, job.URL, job.SearchTerm,
			strings.Join(job.Skills, "|"), string(job.Status),
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	log.Printf("📁 CSV saved to %s (%s rows)", path, strconv.Itoa(len(jobs)))
	return path, nil
}
