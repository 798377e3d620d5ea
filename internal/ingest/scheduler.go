package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/models"
	"golang.org/x/sync/errgroup"
)

// Ingester ingests a single playlist URL
type Ingester interface {
	Ingest(ctx context.Context, playlistURL string) (*models.PlaylistCatalog, error)
}

// JobResult is the outcome of one playlist ingestion within a batch
type JobResult struct {
	URL           string `json:"url"`
	PlaylistID    string `json:"playlist_id,omitempty"`
	PlaylistTitle string `json:"playlist_title,omitempty"`
	VideoCount    int    `json:"video_count"`
	Error         string `json:"error,omitempty"`
	Err           error  `json:"-"`
}

// Succeeded reports whether the job stored a catalog
func (r JobResult) Succeeded() bool {
	return r.Err == nil
}

// BatchReport aggregates a batch of ingestion jobs. Results follow input order.
type BatchReport struct {
	BatchID   uuid.UUID   `json:"batch_id"`
	Started   time.Time   `json:"started"`
	Finished  time.Time   `json:"finished"`
	Results   []JobResult `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Summary returns the single completion message for the batch
func (r *BatchReport) Summary() string {
	if r.Failed == 0 {
		return "Playlists processed successfully"
	}
	return fmt.Sprintf("Playlists processed: %d succeeded, %d failed", r.Succeeded, r.Failed)
}

// Scheduler runs one ingestion job per playlist URL and waits for all of them
type Scheduler struct {
	ingester      Ingester
	maxConcurrent int
	log           zerolog.Logger

	// OnComplete, if set, is called once per batch after every job has ended
	OnComplete func(*BatchReport)
}

// NewScheduler creates a scheduler. maxConcurrent <= 0 starts every job at once.
func NewScheduler(ingester Ingester, maxConcurrent int) *Scheduler {
	return &Scheduler{
		ingester:      ingester,
		maxConcurrent: maxConcurrent,
		log:           logger.Component("scheduler"),
	}
}

// Run ingests every URL concurrently and blocks until all jobs have ended.
// A failing job never stops its siblings.
func (s *Scheduler) Run(ctx context.Context, urls []string) *BatchReport {
	return s.run(ctx, uuid.New(), urls, nil)
}

func (s *Scheduler) run(ctx context.Context, batchID uuid.UUID, urls []string, onJob func(JobResult)) *BatchReport {
	report := &BatchReport{
		BatchID: batchID,
		Started: time.Now().UTC(),
		Results: make([]JobResult, len(urls)),
	}

	s.log.Info().
		Str("batch_id", batchID.String()).
		Int("jobs", len(urls)).
		Int("max_concurrent", s.maxConcurrent).
		Msg("Ingestion batch started")

	var g errgroup.Group
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}

	for idx, url := range urls {
		g.Go(func() error {
			result := s.runJob(ctx, url)
			report.Results[idx] = result
			if onJob != nil {
				onJob(result)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range report.Results {
		if r.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Finished = time.Now().UTC()

	s.log.Debug().
		Str("batch_id", batchID.String()).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("duration", report.Finished.Sub(report.Started)).
		Msg("Ingestion batch finished")

	if s.OnComplete != nil {
		s.OnComplete(report)
	}
	return report
}

func (s *Scheduler) runJob(ctx context.Context, url string) (result JobResult) {
	result = JobResult{URL: url}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("url", url).Interface("panic", r).Msg("Ingestion job panicked")
			result.Err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
			result.Error = result.Err.Error()
		}
	}()

	catalog, err := s.ingester.Ingest(ctx, url)
	if err != nil {
		s.log.Error().Err(err).Str("url", url).Msg("Ingestion job failed")
		result.Err = err
		result.Error = err.Error()
		return result
	}

	result.PlaylistID = catalog.PlaylistID
	result.PlaylistTitle = catalog.PlaylistTitle
	result.VideoCount = catalog.VideoCount
	return result
}

// ParseURLList splits free text into playlist URLs, one per line.
// Surrounding whitespace is trimmed and blank lines are dropped.
func ParseURLList(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}
