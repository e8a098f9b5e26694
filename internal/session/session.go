// Package session owns the active query state and exposes the command/query
// surface the UI layer drives. All state mutation goes through one mutex, so
// views can always be recomputed from a consistent snapshot.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deepsea-edna/blueprint/internal/config"
	"github.com/deepsea-edna/blueprint/internal/history"
	"github.com/deepsea-edna/blueprint/internal/jobs"
	"github.com/deepsea-edna/blueprint/internal/models"
	"github.com/deepsea-edna/blueprint/internal/query"
)

// Session holds the active search text, filters, sort, and pagination state
// over an immutable record set, plus handles to the history manager and the
// search job orchestrator.
type Session struct {
	logger         *zap.Logger
	records        []models.SequenceRecord
	zones          []models.Zone
	highConfidence float64
	maxSuggestions int

	history      *history.Manager
	orchestrator *jobs.Orchestrator

	mu         sync.Mutex
	searchText string
	filters    models.FilterCriteria
	sortCfg    models.SortConfig
	page       models.PageRequest
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger     *zap.Logger
	store      history.SavedSearchStore
	histStore  history.HistoryStore
	runner     jobs.Runner
	onComplete func(models.SearchJob)
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithSavedSearchStore persists saved searches through store.
func WithSavedSearchStore(store history.SavedSearchStore) Option {
	return func(c *sessionConfig) { c.store = store }
}

// WithHistoryStore persists logged queries through store so history survives
// across sessions.
func WithHistoryStore(store history.HistoryStore) Option {
	return func(c *sessionConfig) { c.histStore = store }
}

// WithRunner replaces the simulated search runner, e.g. with a real backend
// call. The job state machine is unchanged.
func WithRunner(runner jobs.Runner) Option {
	return func(c *sessionConfig) { c.runner = runner }
}

// WithOnSearchComplete registers the collaborator hook invoked when an
// asynchronous search completes (typically navigation to a results view).
func WithOnSearchComplete(fn func(models.SearchJob)) Option {
	return func(c *sessionConfig) { c.onComplete = fn }
}

// NewSession creates a session over records and zones. The record slice is
// treated as immutable; the session never writes to it.
func NewSession(records []models.SequenceRecord, zones []models.Zone, cfg config.SearchConfig, opts ...Option) (*Session, error) {
	sc := sessionConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&sc)
	}

	s := &Session{
		logger:         sc.logger,
		records:        records,
		zones:          zones,
		highConfidence: cfg.HighConfidenceThreshold,
		maxSuggestions: cfg.MaxSuggestions,
		page:           models.PageRequest{Page: 1, Limit: cfg.DefaultPageLimit},
	}
	if !models.ValidPageLimit(s.page.Limit) {
		s.page.Limit = models.ValidPageLimits[0]
	}

	runner := sc.runner
	if runner == nil {
		latency := time.Duration(cfg.SimulatedLatencyMs) * time.Millisecond
		runner = jobs.SimulatedRunner(latency, s.evaluateQuery)
	}
	jobOpts := []jobs.Option{jobs.WithLogger(sc.logger)}
	if sc.onComplete != nil {
		jobOpts = append(jobOpts, jobs.WithOnComplete(sc.onComplete))
	}
	s.orchestrator = jobs.NewOrchestrator(runner, jobOpts...)

	histOpts := []history.ManagerOption{history.WithHistoryCap(cfg.HistoryCap)}
	if sc.store != nil {
		histOpts = append(histOpts, history.WithStore(sc.store))
	}
	if sc.histStore != nil {
		histOpts = append(histOpts, history.WithHistoryStore(sc.histStore))
	}
	mgr, err := history.NewManager(s, histOpts...)
	if err != nil {
		return nil, err
	}
	s.history = mgr
	return s, nil
}

// evaluateQuery runs the engine for an asynchronous search using the filter
// and sort state current at resolution time.
func (s *Session) evaluateQuery(queryText string) []models.SequenceRecord {
	s.mu.Lock()
	filters, sortCfg := s.filters, s.sortCfg
	s.mu.Unlock()
	return query.Evaluate(s.records, queryText, filters, sortCfg)
}

// SetSearchQuery replaces the active search text.
func (s *Session) SetSearchQuery(text string) error {
	s.mu.Lock()
	s.searchText = text
	s.mu.Unlock()
	return nil
}

// SearchQuery returns the active search text.
func (s *Session) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchText
}

// UpdateFilters applies a partial filter update. An invalid result is
// rejected and the prior criteria are retained.
func (s *Session) UpdateFilters(patch models.FilterPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := patch.Apply(s.filters)
	if err := next.Validate(); err != nil {
		s.logger.Warn("filter update rejected", zap.Error(err))
		return err
	}
	s.filters = next
	return nil
}

// ReplaceFilters swaps in a complete criteria set after validation. This is
// the capability the saved-search manager writes through.
func (s *Session) ReplaceFilters(filters models.FilterCriteria) error {
	if err := filters.Validate(); err != nil {
		s.logger.Warn("filter replacement rejected", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
	return nil
}

// ClearFilters resets the criteria to match everything.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	s.filters = models.FilterCriteria{}
	s.mu.Unlock()
}

// Filters returns the active criteria.
func (s *Session) Filters() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetSortConfig sets the sort key and direction. An unknown key is accepted
// and yields identity ordering.
func (s *Session) SetSortConfig(key string, direction models.SortDirection) {
	s.mu.Lock()
	s.sortCfg = models.SortConfig{Key: key, Direction: direction}
	s.mu.Unlock()
}

// SortConfig returns the active sort configuration.
func (s *Session) SortConfig() models.SortConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortCfg
}

// SetPage moves to page n. The page is validated against the lower bound
// only; a page past the end of the data yields an empty page by contract.
func (s *Session) SetPage(n int) error {
	if n < 1 {
		return models.ErrInvalidPage
	}
	s.mu.Lock()
	s.page.Page = n
	s.mu.Unlock()
	return nil
}

// SetPageLimit changes the page size and resets to page 1.
func (s *Session) SetPageLimit(n int) error {
	if !models.ValidPageLimit(n) {
		return models.ErrInvalidPageLimit
	}
	s.mu.Lock()
	s.page = models.PageRequest{Page: 1, Limit: n}
	s.mu.Unlock()
	return nil
}

// PageRequest returns the active pagination state.
func (s *Session) PageRequest() models.PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// FilteredSequences recomputes the full filtered, sorted view.
func (s *Session) FilteredSequences() []models.SequenceRecord {
	s.mu.Lock()
	text, filters, sortCfg := s.searchText, s.filters, s.sortCfg
	s.mu.Unlock()
	return query.Evaluate(s.records, text, filters, sortCfg)
}

// PaginatedSequences returns the visible page of the filtered, sorted view.
func (s *Session) PaginatedSequences() models.Page {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	return query.Paginate(s.FilteredSequences(), page)
}

// Statistics aggregates counts over the current filtered view.
func (s *Session) Statistics() models.Statistics {
	return query.Stats(s.FilteredSequences(), s.highConfidence)
}

// Suggestions returns taxon names close to the current search text. Only
// meaningful when the current search matches nothing.
func (s *Session) Suggestions() []string {
	return query.SuggestTaxa(s.records, s.SearchQuery(), s.maxSuggestions)
}

// Zones returns the zone collection loaded at startup.
func (s *Session) Zones() []models.Zone {
	return s.zones
}

// SubmitSearch starts an asynchronous search job for query.
func (s *Session) SubmitSearch(ctx context.Context, query string) (models.SearchJob, error) {
	return s.orchestrator.Submit(ctx, query)
}

// SearchJob returns the authoritative job snapshot.
func (s *Session) SearchJob() models.SearchJob {
	return s.orchestrator.Job()
}

// History returns the history and saved-search manager.
func (s *Session) History() *history.Manager {
	return s.history
}

// LogQuery records the current query state and its result count in history.
// The entry is always added in memory; the error reports a persistence
// failure when a history store is attached.
func (s *Session) LogQuery() (models.HistoryEntry, error) {
	s.mu.Lock()
	text, filters := s.searchText, s.filters
	s.mu.Unlock()
	count := len(s.FilteredSequences())
	return s.history.AddToHistory(text, filters, count)
}

// SaveCurrentSearch saves the active query and filters under name.
func (s *Session) SaveCurrentSearch(name string) (models.SavedSearch, error) {
	s.mu.Lock()
	text, filters := s.searchText, s.filters
	s.mu.Unlock()
	return s.history.SaveSearch(name, text, filters)
}
