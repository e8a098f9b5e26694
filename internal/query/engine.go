// Package query computes filtered, sorted, paginated views over the record set.
// Every function here is pure: output depends only on the arguments, so views
// can be recomputed safely on each query-state change.
package query

import (
	"sort"
	"strings"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// Evaluate returns the records matching searchText and filters, ordered by
// sortCfg. The input slice is never mutated; the result is a fresh slice.
func Evaluate(records []models.SequenceRecord, searchText string, filters models.FilterCriteria, sortCfg models.SortConfig) []models.SequenceRecord {
	out := make([]models.SequenceRecord, 0, len(records))
	for _, r := range records {
		if !MatchesText(r, searchText) {
			continue
		}
		if !MatchesFilters(r, filters) {
			continue
		}
		out = append(out, r)
	}
	Sort(out, sortCfg)
	return out
}

// MatchesText reports whether r matches searchText: empty text matches
// everything, otherwise the text must be a case-insensitive substring of one
// of the searchable fields (id, predicted taxon, functional annotation,
// sample id, habitat type).
func MatchesText(r models.SequenceRecord, searchText string) bool {
	if searchText == "" {
		return true
	}
	needle := strings.ToLower(searchText)
	for _, field := range []string{
		r.ID,
		r.PredictedTaxon,
		r.FunctionalAnnotation,
		r.Sample.SampleID,
		r.Sample.HabitatType,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesFilters reports whether r satisfies every active criterion in
// filters. Inactive criteria (NoveltyAny, empty strings, nil dates) are
// skipped.
func MatchesFilters(r models.SequenceRecord, f models.FilterCriteria) bool {
	switch f.Novelty {
	case models.NoveltyOnly:
		if !r.Novel {
			return false
		}
	case models.NoveltyExclude:
		if r.Novel {
			return false
		}
	}
	if r.Confidence < f.MinConfidence {
		return false
	}
	if f.Taxon != "" && !strings.Contains(strings.ToLower(r.PredictedTaxon), strings.ToLower(f.Taxon)) {
		return false
	}
	if f.ZoneID != "" && r.ZoneID != f.ZoneID {
		return false
	}
	if f.DateFrom != nil && r.Sample.CollectionDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && r.Sample.CollectionDate.After(*f.DateTo) {
		return false
	}
	return true
}

// Sort orders records in place by cfg. The sort is stable: equal keys keep
// their prior relative order in both directions. An unknown key leaves the
// slice untouched.
func Sort(records []models.SequenceRecord, cfg models.SortConfig) {
	less := lessFunc(cfg.Key)
	if less == nil {
		return
	}
	if cfg.Direction == models.SortDesc {
		asc := less
		less = func(a, b models.SequenceRecord) bool { return asc(b, a) }
	}
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})
}

func lessFunc(key string) func(a, b models.SequenceRecord) bool {
	switch key {
	case models.SortByID:
		return func(a, b models.SequenceRecord) bool { return a.ID < b.ID }
	case models.SortByTaxon:
		return func(a, b models.SequenceRecord) bool {
			return strings.ToLower(a.PredictedTaxon) < strings.ToLower(b.PredictedTaxon)
		}
	case models.SortByConfidence:
		return func(a, b models.SequenceRecord) bool { return a.Confidence < b.Confidence }
	case models.SortByLength:
		return func(a, b models.SequenceRecord) bool { return a.Length < b.Length }
	case models.SortByQuality:
		return func(a, b models.SequenceRecord) bool { return a.QualityScore < b.QualityScore }
	default:
		return nil
	}
}
