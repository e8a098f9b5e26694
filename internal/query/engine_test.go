package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/deepsea-edna/blueprint/internal/models"
)

func rec(id string, confidence float64) models.SequenceRecord {
	return models.SequenceRecord{
		ID:             id,
		PredictedTaxon: "Cnidaria",
		Confidence:     confidence,
		Length:         100,
	}
}

func ids(records []models.SequenceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestEvaluate_ConfidenceFilterAndSort(t *testing.T) {
	// Five records with known confidences; minConfidence=0.6 keeps three,
	// descending sort orders them 0.95, 0.9, 0.7.
	records := []models.SequenceRecord{
		rec("a", 0.9),
		rec("b", 0.5),
		rec("c", 0.95),
		rec("d", 0.3),
		rec("e", 0.7),
	}
	got := Evaluate(records, "", models.FilterCriteria{MinConfidence: 0.6},
		models.SortConfig{Key: models.SortByConfidence, Direction: models.SortDesc})

	want := []string{"c", "a", "e"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Evaluate() order = %v, want %v", ids(got), want)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	records := []models.SequenceRecord{
		rec("a", 0.9), rec("b", 0.5), rec("c", 0.95), rec("d", 0.3), rec("e", 0.7),
	}
	filters := models.FilterCriteria{MinConfidence: 0.6}
	sortCfg := models.SortConfig{Key: models.SortByConfidence, Direction: models.SortAsc}

	once := Evaluate(records, "", filters, sortCfg)
	twice := Evaluate(once, "", filters, sortCfg)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-filtering a filtered result changed it: %v vs %v", ids(once), ids(twice))
	}
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	records := []models.SequenceRecord{rec("b", 0.5), rec("a", 0.9)}
	Evaluate(records, "", models.FilterCriteria{}, models.SortConfig{Key: models.SortByID, Direction: models.SortAsc})
	if records[0].ID != "b" || records[1].ID != "a" {
		t.Errorf("input slice was reordered: %v", ids(records))
	}
}

func TestMatchesText(t *testing.T) {
	r := models.SequenceRecord{
		ID:                   "SEQ-0042",
		PredictedTaxon:       "Bathypelagic copepod",
		FunctionalAnnotation: "chitin synthase",
		Sample: models.SampleInfo{
			SampleID:    "ABYSS-S7",
			HabitatType: "hydrothermal_vent",
		},
	}
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty matches", "", true},
		{"id substring", "seq-00", true},
		{"taxon case-insensitive", "COPEPOD", true},
		{"annotation", "chitin", true},
		{"sample id", "abyss", true},
		{"habitat", "vent", true},
		{"sequence data is not searchable", "ACGT", false},
		{"no match", "foraminifera", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesText(r, tt.text); got != tt.want {
				t.Errorf("MatchesText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchesFilters(t *testing.T) {
	collected := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	r := models.SequenceRecord{
		ID:             "SEQ-1",
		PredictedTaxon: "Xenophyophorea",
		Confidence:     0.72,
		Novel:          true,
		ZoneID:         "zone-7",
		Sample:         models.SampleInfo{CollectionDate: collected},
	}
	tests := []struct {
		name    string
		filters models.FilterCriteria
		want    bool
	}{
		{"empty criteria", models.FilterCriteria{}, true},
		{"novelty any", models.FilterCriteria{Novelty: models.NoveltyAny}, true},
		{"novelty only", models.FilterCriteria{Novelty: models.NoveltyOnly}, true},
		{"novelty exclude", models.FilterCriteria{Novelty: models.NoveltyExclude}, false},
		{"confidence met", models.FilterCriteria{MinConfidence: 0.7}, true},
		{"confidence not met", models.FilterCriteria{MinConfidence: 0.8}, false},
		{"taxon substring case-insensitive", models.FilterCriteria{Taxon: "xeno"}, true},
		{"taxon no match", models.FilterCriteria{Taxon: "copepod"}, false},
		{"zone exact", models.FilterCriteria{ZoneID: "zone-7"}, true},
		{"zone exact mismatch", models.FilterCriteria{ZoneID: "zone"}, false},
		{"date range containing", models.FilterCriteria{DateFrom: &before, DateTo: &after}, true},
		{"date from after collection", models.FilterCriteria{DateFrom: &after}, false},
		{"date to before collection", models.FilterCriteria{DateTo: &before}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesFilters(r, tt.filters); got != tt.want {
				t.Errorf("MatchesFilters(%+v) = %v, want %v", tt.filters, got, tt.want)
			}
		})
	}
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	// All records share the same confidence; input order must survive the
	// sort in both directions.
	records := []models.SequenceRecord{
		rec("first", 0.5), rec("second", 0.5), rec("third", 0.5), rec("fourth", 0.5),
	}
	want := []string{"first", "second", "third", "fourth"}

	for _, dir := range []models.SortDirection{models.SortAsc, models.SortDesc} {
		t.Run(string(dir), func(t *testing.T) {
			in := make([]models.SequenceRecord, len(records))
			copy(in, records)
			Sort(in, models.SortConfig{Key: models.SortByConfidence, Direction: dir})
			if !reflect.DeepEqual(ids(in), want) {
				t.Errorf("equal-key order after %s sort = %v, want %v", dir, ids(in), want)
			}
		})
	}
}

func TestSort_UnknownKeyIsIdentity(t *testing.T) {
	records := []models.SequenceRecord{rec("z", 0.1), rec("a", 0.9), rec("m", 0.5)}
	want := ids(records)
	Sort(records, models.SortConfig{Key: "depth_of_field", Direction: models.SortAsc})
	if !reflect.DeepEqual(ids(records), want) {
		t.Errorf("unknown sort key reordered records: %v, want %v", ids(records), want)
	}
}

func TestSort_Keys(t *testing.T) {
	records := []models.SequenceRecord{
		{ID: "b", PredictedTaxon: "zooxanthellae", Confidence: 0.2, Length: 300, QualityScore: 35},
		{ID: "a", PredictedTaxon: "Amphipoda", Confidence: 0.9, Length: 100, QualityScore: 20},
		{ID: "c", PredictedTaxon: "Mollusca", Confidence: 0.5, Length: 200, QualityScore: 40},
	}
	tests := []struct {
		key  string
		want []string
	}{
		{models.SortByID, []string{"a", "b", "c"}},
		{models.SortByTaxon, []string{"a", "c", "b"}}, // case-insensitive
		{models.SortByConfidence, []string{"b", "c", "a"}},
		{models.SortByLength, []string{"a", "c", "b"}},
		{models.SortByQuality, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			in := make([]models.SequenceRecord, len(records))
			copy(in, records)
			Sort(in, models.SortConfig{Key: tt.key, Direction: models.SortAsc})
			if !reflect.DeepEqual(ids(in), tt.want) {
				t.Errorf("sort by %s = %v, want %v", tt.key, ids(in), tt.want)
			}
		})
	}
}
