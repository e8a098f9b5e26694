package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/deepsea-edna/blueprint/internal/models"
)

type fakeQueryState struct {
	query   string
	filters models.FilterCriteria
	fail    bool
}

func (f *fakeQueryState) SetSearchQuery(text string) error {
	f.query = text
	return nil
}

func (f *fakeQueryState) ReplaceFilters(filters models.FilterCriteria) error {
	if f.fail {
		return errors.New("rejected")
	}
	f.filters = filters
	return nil
}

func newTestManager(t *testing.T, opts ...ManagerOption) (*Manager, *fakeQueryState) {
	t.Helper()
	qs := &fakeQueryState{}
	m, err := NewManager(qs, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return m, qs
}

func TestManager_HistoryBound(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 1; i <= 11; i++ {
		m.AddToHistory(fmt.Sprintf("query %d", i), models.FilterCriteria{}, i)
	}

	entries := m.History()
	if len(entries) != DefaultHistoryCap {
		t.Fatalf("history length = %d, want %d", len(entries), DefaultHistoryCap)
	}
	// Most recent first: 11 down to 2, the first entry evicted.
	if entries[0].Query != "query 11" {
		t.Errorf("newest entry = %q, want %q", entries[0].Query, "query 11")
	}
	if entries[len(entries)-1].Query != "query 2" {
		t.Errorf("oldest surviving entry = %q, want %q", entries[len(entries)-1].Query, "query 2")
	}
	for _, e := range entries {
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Errorf("entry missing id or timestamp: %+v", e)
		}
	}
}

func TestManager_CustomCap(t *testing.T) {
	m, _ := newTestManager(t, WithHistoryCap(3))
	for i := 0; i < 5; i++ {
		m.AddToHistory(fmt.Sprintf("q%d", i), models.FilterCriteria{}, 0)
	}
	if got := len(m.History()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestManager_SaveAndRemove(t *testing.T) {
	m, _ := newTestManager(t)

	first, err := m.SaveSearch("vents", "hydrothermal", models.FilterCriteria{MinConfidence: 0.8})
	if err != nil {
		t.Fatal(err)
	}
	// Same name again: no deduplication.
	second, err := m.SaveSearch("vents", "hydrothermal vent fauna", models.FilterCriteria{})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("saved searches share an id")
	}
	if got := len(m.SavedSearches()); got != 2 {
		t.Fatalf("saved count = %d, want 2", got)
	}

	if err := m.RemoveSavedSearch(first.ID); err != nil {
		t.Fatal(err)
	}
	saved := m.SavedSearches()
	if len(saved) != 1 || saved[0].ID != second.ID {
		t.Errorf("after remove: %+v", saved)
	}
}

func TestManager_RemoveNonexistentIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.SaveSearch("keep", "q", models.FilterCriteria{}); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveSavedSearch("nonexistent-id"); err != nil {
		t.Errorf("RemoveSavedSearch(nonexistent) = %v, want nil", err)
	}
	if got := len(m.SavedSearches()); got != 1 {
		t.Errorf("saved list changed: %d entries, want 1", got)
	}
}

func TestManager_ApplySavedSearch(t *testing.T) {
	m, qs := newTestManager(t)
	saved := models.SavedSearch{
		Query:   "amphipod",
		Filters: models.FilterCriteria{Novelty: models.NoveltyOnly, ZoneID: "zone-3"},
	}
	if err := m.ApplySavedSearch(saved); err != nil {
		t.Fatal(err)
	}
	if qs.query != "amphipod" {
		t.Errorf("applied query = %q", qs.query)
	}
	if qs.filters.ZoneID != "zone-3" || qs.filters.Novelty != models.NoveltyOnly {
		t.Errorf("applied filters = %+v", qs.filters)
	}
}

func TestManager_ApplySavedSearch_FilterRejection(t *testing.T) {
	m, qs := newTestManager(t)
	qs.fail = true
	err := m.ApplySavedSearch(models.SavedSearch{Query: "q"})
	if err == nil {
		t.Fatal("expected error from rejected filters")
	}
	if qs.query != "" {
		t.Error("search text written despite filter rejection")
	}
}

type memStore struct {
	items map[string]models.SavedSearch
	order []string
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]models.SavedSearch)}
}

func (s *memStore) PutSavedSearch(saved models.SavedSearch) error {
	if _, ok := s.items[saved.ID]; !ok {
		s.order = append(s.order, saved.ID)
	}
	s.items[saved.ID] = saved
	return nil
}

func (s *memStore) DeleteSavedSearch(id string) error {
	delete(s.items, id)
	return nil
}

func (s *memStore) ListSavedSearches() ([]models.SavedSearch, error) {
	var out []models.SavedSearch
	for _, id := range s.order {
		if saved, ok := s.items[id]; ok {
			out = append(out, saved)
		}
	}
	return out, nil
}

type memHistoryStore struct {
	entries []models.HistoryEntry
}

func (s *memHistoryStore) PutHistoryEntry(e models.HistoryEntry) error {
	// Most recent first, matching how a real store lists them.
	s.entries = append([]models.HistoryEntry{e}, s.entries...)
	return nil
}

func (s *memHistoryStore) ListHistoryEntries(limit int) ([]models.HistoryEntry, error) {
	if len(s.entries) > limit {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func (s *memHistoryStore) TrimHistory(n int) error {
	if len(s.entries) > n {
		s.entries = s.entries[:n]
	}
	return nil
}

func TestManager_HistoryStoreRoundTrip(t *testing.T) {
	store := &memHistoryStore{}
	m, _ := newTestManager(t, WithHistoryCap(3), WithHistoryStore(store))

	for i := 1; i <= 5; i++ {
		if _, err := m.AddToHistory(fmt.Sprintf("query %d", i), models.FilterCriteria{}, i); err != nil {
			t.Fatal(err)
		}
	}

	// A new manager on the same store sees the capped history, newest first.
	reloaded, _ := newTestManager(t, WithHistoryCap(3), WithHistoryStore(store))
	entries := reloaded.History()
	if len(entries) != 3 {
		t.Fatalf("reloaded history length = %d, want 3", len(entries))
	}
	if entries[0].Query != "query 5" || entries[2].Query != "query 3" {
		t.Errorf("reloaded order = [%q .. %q], want [\"query 5\" .. \"query 3\"]",
			entries[0].Query, entries[2].Query)
	}
}

func TestManager_StoreRoundTrip(t *testing.T) {
	store := newMemStore()
	m, _ := newTestManager(t, WithStore(store))
	saved, err := m.SaveSearch("persisted", "q", models.FilterCriteria{})
	if err != nil {
		t.Fatal(err)
	}

	// A new manager on the same store sees the saved search.
	reloaded, _ := newTestManager(t, WithStore(store))
	list := reloaded.SavedSearches()
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("reloaded saved searches = %+v", list)
	}
}
