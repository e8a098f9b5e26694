package jobs

import (
	"context"
	"time"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// Evaluator computes the records matching a query. The session wires this to
// the query engine.
type Evaluator func(query string) []models.SequenceRecord

// SimulatedRunner returns a Runner that stands in for a backend search call:
// it waits for delay, then evaluates synchronously. A networked
// implementation can replace it without touching the state machine.
func SimulatedRunner(delay time.Duration, eval Evaluator) Runner {
	return func(ctx context.Context, query string) (*Result, error) {
		started := time.Now()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
		records := eval(query)
		return &Result{
			Records: records,
			Total:   len(records),
			Elapsed: time.Since(started),
		}, nil
	}
}
