package models

import "time"

// JobStatus is the lifecycle state of a search job.
// Idle -> Running -> {Complete, Failed}; Complete and Failed are terminal
// for a job instance, a new submission starts a fresh job.
type JobStatus int

const (
	JobIdle JobStatus = iota
	JobRunning
	JobComplete
	JobFailed
)

// String returns the lowercase status name.
func (s JobStatus) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobRunning:
		return "running"
	case JobComplete:
		return "complete"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchJob is a snapshot of an asynchronous search submission.
// Generation increases monotonically per submission; a resolving result whose
// generation is no longer current is discarded, so results apply in
// submission order rather than completion order.
type SearchJob struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	Status     JobStatus        `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	Generation uint64           `json:"generation"`
	Result     []SequenceRecord `json:"result,omitempty"`
	Err        string           `json:"error,omitempty"`
}
