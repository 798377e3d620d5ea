package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/khelwa/internal/logger"
)

// Batch retention and cleanup settings
const (
	DefaultBatchRetention = 1 * time.Hour
	cleanupInterval       = 15 * time.Minute
)

// BatchState represents the lifecycle state of a tracked batch
type BatchState string

// Batch state constants
const (
	BatchStateRunning   BatchState = "running"
	BatchStateCompleted BatchState = "completed"
)

// BatchStatus is a point-in-time view of a tracked batch
type BatchStatus struct {
	BatchID   string      `json:"batch_id"`
	State     BatchState  `json:"state"`
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	StartTime time.Time   `json:"start_time"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	Results   []JobResult `json:"results,omitempty"`
	mu        sync.RWMutex
}

// Tracker runs batches in the background and keeps their status for polling
type Tracker struct {
	scheduler   *Scheduler
	retention   time.Duration
	batches     map[string]*BatchStatus
	closed      bool
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	running     sync.WaitGroup
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	stopOnce    sync.Once
}

// NewTracker creates a tracker and starts its cleanup goroutine.
// Finished batches are dropped after retention.
func NewTracker(scheduler *Scheduler, retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = DefaultBatchRetention
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		scheduler:   scheduler,
		retention:   retention,
		batches:     make(map[string]*BatchStatus),
		ctx:         ctx,
		cancel:      cancel,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	go t.runCleanupLoop()

	return t
}

// Start launches a batch asynchronously and returns its ID
func (t *Tracker) Start(urls []string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoURLs
	}
	batchID := uuid.New()
	status := &BatchStatus{
		BatchID:   batchID.String(),
		State:     BatchStateRunning,
		Total:     len(urls),
		StartTime: time.Now().UTC(),
	}

	// closed and running.Add share the lock so Stop never waits while a batch registers
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return "", ErrTrackerStopped
	}
	t.batches[status.BatchID] = status
	t.running.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.running.Done()

		report := t.scheduler.run(t.ctx, batchID, urls, func(r JobResult) {
			status.mu.Lock()
			status.Completed++
			if r.Succeeded() {
				status.Succeeded++
			} else {
				status.Failed++
			}
			status.mu.Unlock()
		})
		t.finalize(status, report)
	}()

	logger.Log.Info().
		Str("batch_id", status.BatchID).
		Int("jobs", len(urls)).
		Msg("Ingestion batch queued")

	return status.BatchID, nil
}

func (t *Tracker) finalize(status *BatchStatus, report *BatchReport) {
	end := report.Finished
	status.mu.Lock()
	status.State = BatchStateCompleted
	status.EndTime = &end
	status.Completed = len(report.Results)
	status.Succeeded = report.Succeeded
	status.Failed = report.Failed
	status.Summary = report.Summary()
	status.Results = report.Results
	status.mu.Unlock()
}

// Get returns a copy of the batch's current status
func (t *Tracker) Get(batchID string) (*BatchStatus, error) {
	t.mu.RLock()
	status, exists := t.batches[batchID]
	t.mu.RUnlock()

	if !exists {
		return nil, ErrBatchNotFound
	}

	status.mu.RLock()
	defer status.mu.RUnlock()

	return &BatchStatus{
		BatchID:   status.BatchID,
		State:     status.State,
		Total:     status.Total,
		Completed: status.Completed,
		Succeeded: status.Succeeded,
		Failed:    status.Failed,
		StartTime: status.StartTime,
		EndTime:   status.EndTime,
		Summary:   status.Summary,
		Results:   append([]JobResult(nil), status.Results...),
	}, nil
}

// Stop cancels running batches, waits for them to end and stops the cleanup goroutine
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()

		t.cancel()
		t.running.Wait()
		close(t.stopCleanup)
		<-t.cleanupDone
		logger.Log.Debug().Msg("Batch tracker stopped")
	})
}

func (t *Tracker) runCleanupLoop() {
	defer close(t.cleanupDone)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCleanup:
			return
		case <-ticker.C:
			t.CleanupOldBatches(t.retention)
		}
	}
}

// CleanupOldBatches removes finished batches that ended more than olderThan ago
func (t *Tracker) CleanupOldBatches(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, status := range t.batches {
		status.mu.RLock()
		state, end := status.State, status.EndTime
		status.mu.RUnlock()

		if state == BatchStateRunning || end == nil {
			continue
		}
		if end.Before(cutoff) {
			delete(t.batches, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Log.Debug().
			Int("removed_count", removed).
			Int("remaining_count", len(t.batches)).
			Dur("older_than", olderThan).
			Msg("Cleaned up old batches")
	}
}
