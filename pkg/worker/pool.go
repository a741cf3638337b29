package worker

import (
	"context"
	"sync"
	"time"

	"github.com/mariasu11/netlog/internal/metrics"
)

// Pool represents a worker pool that processes jobs concurrently
type Pool struct {
	workers  int
	jobs     chan Job
	wg       sync.WaitGroup
	metrics  *metrics.Metrics
	stopOnce sync.Once
}

// Job is a function that should be executed by a worker
type Job func()

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	// Ensure at least one worker
	if workers < 1 {
		workers = 1
	}

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*100), // Buffer size is 100x workers
		metrics: metrics.GetMetrics(),
	}
}

// Start starts the worker pool
func (p *Pool) Start(ctx context.Context) {
	p.metrics.WorkersActive.Set(float64(p.workers))

	// Start workers
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// worker is the main worker goroutine
func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			// Context is cancelled, exit
			return
		case job, ok := <-p.jobs:
			if !ok {
				// Channel closed, exit
				return
			}

			p.metrics.WorkQueueSize.Dec()
			p.processJob(job)
		}
	}
}

// processJob executes a job and records metrics
func (p *Pool) processJob(job Job) {
	start := time.Now()

	// Execute the job
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.metrics.WorkItemsErrored.Inc()
			}
		}()
		job()
	}()

	// Record metrics
	p.metrics.WorkItemsProcessed.Inc()
	p.metrics.WorkerProcessingTime.Observe(time.Since(start).Seconds())
}

// Submit adds a job to the worker pool. Returns false when the queue is
// full and the job was dropped.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		p.metrics.WorkQueueSize.Inc()
		return true
	default:
		// Queue is full
		p.metrics.WorkItemsErrored.Inc()
		return false
	}
}

// Stop gracefully shuts down the worker pool
func (p *Pool) Stop(ctx context.Context) {
	p.stopOnce.Do(func() {
		// Close the jobs channel to signal workers to exit
		close(p.jobs)

		// Wait for all workers to finish with a timeout
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// All workers exited cleanly
		case <-ctx.Done():
			// Timeout reached, some workers may still be running
		}

		p.metrics.WorkersActive.Set(0)
	})
}

// Stats returns statistics about the worker pool
func (p *Pool) Stats() map[string]interface{} {
	return map[string]interface{}{
		"workers":        p.workers,
		"queue_size":     len(p.jobs),
		"queue_capacity": cap(p.jobs),
	}
}
