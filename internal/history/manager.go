// Package history tracks recent queries and user-saved searches.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// DefaultHistoryCap is how many recent entries are kept when no cap is configured.
const DefaultHistoryCap = 10

// QueryState is the narrow mutator capability ApplySavedSearch writes
// through. The session injects itself; the manager never reaches into query
// state it was not handed.
type QueryState interface {
	SetSearchQuery(text string) error
	ReplaceFilters(filters models.FilterCriteria) error
}

// SavedSearchStore persists saved searches. Persistence is best-effort; the
// manager works fully in memory without one.
type SavedSearchStore interface {
	PutSavedSearch(s models.SavedSearch) error
	DeleteSavedSearch(id string) error
	ListSavedSearches() ([]models.SavedSearch, error)
}

// HistoryStore persists query history across sessions. Like SavedSearchStore,
// it is optional; without one the history lives only in memory.
type HistoryStore interface {
	PutHistoryEntry(e models.HistoryEntry) error
	ListHistoryEntries(limit int) ([]models.HistoryEntry, error)
	TrimHistory(n int) error
}

// Manager holds the bounded query history (most-recent-first, oldest evicted)
// and the unbounded saved-search list.
type Manager struct {
	queryState QueryState
	store      SavedSearchStore
	histStore  HistoryStore
	cap        int

	mu      sync.Mutex
	entries []models.HistoryEntry
	saved   []models.SavedSearch
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHistoryCap overrides the history bound.
func WithHistoryCap(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.cap = n
		}
	}
}

// WithStore attaches saved-search persistence. Existing saved searches are
// loaded when the manager is created.
func WithStore(store SavedSearchStore) ManagerOption {
	return func(m *Manager) { m.store = store }
}

// WithHistoryStore attaches query-history persistence. The most recent
// entries up to the cap are loaded when the manager is created.
func WithHistoryStore(store HistoryStore) ManagerOption {
	return func(m *Manager) { m.histStore = store }
}

// NewManager creates a manager writing applied searches through queryState.
func NewManager(queryState QueryState, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		queryState: queryState,
		cap:        DefaultHistoryCap,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store != nil {
		saved, err := m.store.ListSavedSearches()
		if err != nil {
			return nil, fmt.Errorf("load saved searches: %w", err)
		}
		m.saved = saved
	}
	if m.histStore != nil {
		entries, err := m.histStore.ListHistoryEntries(m.cap)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		m.entries = entries
	}
	return m, nil
}

// AddToHistory prepends a completed query evaluation and evicts the oldest
// entries past the cap. The in-memory list is updated even when persistence
// fails, so the returned entry is always logged for the session.
func (m *Manager) AddToHistory(query string, filters models.FilterCriteria, resultCount int) (models.HistoryEntry, error) {
	entry := models.HistoryEntry{
		ID:          uuid.New().String(),
		Query:       query,
		Filters:     filters,
		ResultCount: resultCount,
		Timestamp:   time.Now(),
	}
	m.mu.Lock()
	m.entries = append([]models.HistoryEntry{entry}, m.entries...)
	if len(m.entries) > m.cap {
		m.entries = m.entries[:m.cap]
	}
	m.mu.Unlock()
	if m.histStore != nil {
		if err := m.histStore.PutHistoryEntry(entry); err != nil {
			return entry, fmt.Errorf("persist history entry: %w", err)
		}
		if err := m.histStore.TrimHistory(m.cap); err != nil {
			return entry, fmt.Errorf("trim history: %w", err)
		}
	}
	return entry, nil
}

// History returns the entries, most recent first.
func (m *Manager) History() []models.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// SaveSearch appends a named search. Names are not deduplicated.
func (m *Manager) SaveSearch(name, query string, filters models.FilterCriteria) (models.SavedSearch, error) {
	saved := models.SavedSearch{
		ID:        uuid.New().String(),
		Name:      name,
		Query:     query,
		Filters:   filters,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.saved = append(m.saved, saved)
	m.mu.Unlock()
	if m.store != nil {
		if err := m.store.PutSavedSearch(saved); err != nil {
			return saved, fmt.Errorf("persist saved search: %w", err)
		}
	}
	return saved, nil
}

// RemoveSavedSearch deletes the search with the given id. A missing id is a
// no-op, not an error.
func (m *Manager) RemoveSavedSearch(id string) error {
	m.mu.Lock()
	for i, s := range m.saved {
		if s.ID == id {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	if m.store != nil {
		if err := m.store.DeleteSavedSearch(id); err != nil {
			return fmt.Errorf("delete saved search: %w", err)
		}
	}
	return nil
}

// SavedSearches returns the saved list in creation order.
func (m *Manager) SavedSearches() []models.SavedSearch {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SavedSearch, len(m.saved))
	copy(out, m.saved)
	return out
}

// ApplySavedSearch writes the saved query and filters into the active query
// state. Filters go first so a validation failure leaves the search text
// untouched.
func (m *Manager) ApplySavedSearch(saved models.SavedSearch) error {
	if err := m.queryState.ReplaceFilters(saved.Filters); err != nil {
		return fmt.Errorf("apply saved filters: %w", err)
	}
	if err := m.queryState.SetSearchQuery(saved.Query); err != nil {
		return fmt.Errorf("apply saved query: %w", err)
	}
	return nil
}
