// Package jobs runs asynchronous search submissions as an explicit state
// machine guarded by a generation counter.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// Result is what a search run resolves with.
type Result struct {
	Records []models.SequenceRecord `json:"records"`
	Total   int                     `json:"total"`
	Elapsed time.Duration           `json:"elapsed"`
}

// Runner performs one search run. It may block for as long as the search
// takes; the orchestrator calls it on its own goroutine.
type Runner func(ctx context.Context, query string) (*Result, error)

// Orchestrator owns the authoritative search job state. At most one job is
// authoritative at a time, identified by its generation: a resolving run
// whose generation is no longer current is discarded, so the last submission
// wins regardless of completion order.
type Orchestrator struct {
	runner     Runner
	logger     *zap.Logger
	onComplete func(models.SearchJob)

	mu         sync.Mutex
	generation uint64
	job        models.SearchJob
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger for job transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithOnComplete registers a callback invoked after a current-generation job
// transitions to Complete. Callers typically navigate to a results view here.
func WithOnComplete(fn func(models.SearchJob)) Option {
	return func(o *Orchestrator) { o.onComplete = fn }
}

// NewOrchestrator creates an orchestrator that executes submissions with runner.
func NewOrchestrator(runner Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner: runner,
		logger: zap.NewNop(),
		job:    models.SearchJob{Status: models.JobIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit starts a fresh job for query and returns its Running snapshot.
// Any in-flight run keeps executing but its outcome becomes inert.
func (o *Orchestrator) Submit(ctx context.Context, query string) (models.SearchJob, error) {
	if query == "" {
		return o.Job(), models.ErrEmptyQuery
	}

	o.mu.Lock()
	o.generation++
	o.job = models.SearchJob{
		ID:         uuid.New().String(),
		Query:      query,
		Status:     models.JobRunning,
		StartedAt:  time.Now(),
		Generation: o.generation,
	}
	snapshot := o.job
	o.mu.Unlock()

	o.logger.Debug("search job submitted",
		zap.String("job_id", snapshot.ID),
		zap.String("query", query),
		zap.Uint64("generation", snapshot.Generation),
	)

	go func(gen uint64) {
		result, err := o.runner(ctx, query)
		o.resolve(gen, result, err)
	}(snapshot.Generation)

	return snapshot, nil
}

// Job returns a snapshot of the authoritative job state.
func (o *Orchestrator) Job() models.SearchJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

func (o *Orchestrator) resolve(gen uint64, result *Result, err error) {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.logger.Debug("discarding superseded search result",
			zap.Uint64("generation", gen),
		)
		return
	}
	if err != nil {
		o.job.Status = models.JobFailed
		o.job.Err = err.Error()
		snapshot := o.job
		o.mu.Unlock()
		o.logger.Warn("search job failed",
			zap.String("job_id", snapshot.ID),
			zap.Error(err),
		)
		return
	}
	o.job.Status = models.JobComplete
	o.job.Result = result.Records
	snapshot := o.job
	o.mu.Unlock()

	o.logger.Debug("search job complete",
		zap.String("job_id", snapshot.ID),
		zap.Int("total", result.Total),
		zap.Duration("elapsed", result.Elapsed),
	)
	if o.onComplete != nil {
		o.onComplete(snapshot)
	}
}
