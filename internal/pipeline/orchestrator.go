package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docnav/internal/config"
	"go.uber.org/zap"
)

// ErrQueueFull is returned by Submit when no worker slot is free.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator manages the reindex pipeline.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *zap.Logger
	cfg    config.Config

	// Serialises catalog rebuilds; workers only overlap while queued.
	running sync.Mutex

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped sync.Once

	// Guards queue sends against Stop closing the channel.
	queueMu sync.RWMutex
	closed  bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, worker *Worker, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: worker,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	o.running.Lock()
	defer o.running.Unlock()
	start := time.Now()
	o.worker.Process(ctx, job)
	snap := job.Snapshot()
	o.log.Info("reindex finished",
		zap.String("job_id", snap.ID),
		zap.String("status", string(snap.Status)),
		zap.Int("errors", len(snap.Progress.Errors)),
		zap.Duration("took", time.Since(start)),
	)
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.stopped.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		o.queueMu.Lock()
		o.closed = true
		close(o.queue)
		o.queueMu.Unlock()
		o.wg.Wait()
	})
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.queueMu.RLock()
	defer o.queueMu.RUnlock()
	if o.closed {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// RunNow processes job synchronously on the caller's goroutine. The server
// uses it for the initial catalog load.
func (o *Orchestrator) RunNow(ctx context.Context, job *Job) JobSnapshot {
	o.jobs.Put(job)
	o.run(ctx, job)
	return job.Snapshot()
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
