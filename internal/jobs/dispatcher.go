// Package jobs drives review items from creation to a terminal state: it runs
// one extraction job per submitted image on a small worker pool.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/2525Azarashi/manatobi/internal/core"
)

// dispatcher implements core.JobDispatcher and manages a pool of worker
// goroutines processing extraction runs. Runs are independent: they share the
// queue but never each other's state, and one run failing leaves its siblings
// untouched.
type dispatcher struct {
	extractionJob core.Job              // Job implementation executed by each worker.
	jobQueue      chan *core.ReviewItem // Queue of items awaiting extraction.
	maxWorkers    int                   // Number of concurrent workers.
	wg            sync.WaitGroup        // Tracks active workers for graceful shutdown.
	logger        *slog.Logger          // Logger instance for the dispatcher.

	mu      sync.Mutex
	running map[string]context.CancelFunc // In-flight runs by item id.
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(extractionJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		extractionJob: extractionJob,
		maxWorkers:    maxWorkers,
		jobQueue:      make(chan *core.ReviewItem, 100),
		logger:        logger,
		running:       make(map[string]context.CancelFunc),
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process runs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes items from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting extraction worker", "id", workerID)

	for item := range d.jobQueue {
		d.processItem(workerID, item)
	}

	d.logger.Debug("shutting down extraction worker", "id", workerID)
}

// processItem runs one extraction run for the item, keeping its cancel handle
// registered for the duration of the run.
func (d *dispatcher) processItem(workerID int, item *core.ReviewItem) {
	d.logger.Info("worker processing extraction run",
		"worker_id", workerID,
		"item", item.ID,
		"file", item.SourceFileName,
	)

	runCtx, cancel := context.WithCancel(context.Background())
	d.register(item.ID, cancel)
	defer d.unregister(item.ID)

	err := d.extractionJob.Run(runCtx, item)
	if err != nil {
		d.logger.Error("extraction run failed",
			"item", item.ID,
			"file", item.SourceFileName,
			"error", err,
		)
	}
}

// Dispatch queues an extraction run for the item.
func (d *dispatcher) Dispatch(_ context.Context, item *core.ReviewItem) error {
	d.logger.Info("queuing extraction run", "item", item.ID, "file", item.SourceFileName)

	select {
	case d.jobQueue <- item:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new extraction run")
	}
}

// Cancel stops the in-flight run for id, if any. Runs for already-finished or
// unknown ids are ignored.
func (d *dispatcher) Cancel(id string) {
	d.mu.Lock()
	cancel, ok := d.running[id]
	d.mu.Unlock()

	if ok {
		d.logger.Info("canceling extraction run", "item", id)
		cancel()
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Debug("stopping dispatcher and waiting for extraction runs to finish")
	close(d.jobQueue)
	d.wg.Wait()
}

func (d *dispatcher) register(id string, cancel context.CancelFunc) {
	d.mu.Lock()
	d.running[id] = cancel
	d.mu.Unlock()
}

func (d *dispatcher) unregister(id string) {
	d.mu.Lock()
	cancel := d.running[id]
	delete(d.running, id)
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
