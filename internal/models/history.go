package models

import "time"

// HistoryEntry records one completed query evaluation the caller chose to log.
type HistoryEntry struct {
	ID          string         `json:"id"`
	Query       string         `json:"query"`
	Filters     FilterCriteria `json:"filters"`
	ResultCount int            `json:"result_count"`
	Timestamp   time.Time      `json:"timestamp"`
}

// SavedSearch is a user-named (query, filters) pair that can be re-applied
// to the active query state. Saved searches are never auto-evicted.
type SavedSearch struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Query     string         `json:"query"`
	Filters   FilterCriteria `json:"filters"`
	CreatedAt time.Time      `json:"created_at"`
}
