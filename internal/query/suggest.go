package query

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// maxSuggestDistance is the largest edit distance still considered a
// plausible misspelling of a taxon name.
const maxSuggestDistance = 4

// SuggestTaxa returns up to max distinct taxon names from records closest to
// term by edit distance, nearest first with ties broken alphabetically.
// Exact matches and names further than maxSuggestDistance are excluded.
func SuggestTaxa(records []models.SequenceRecord, term string, max int) []string {
	if term == "" || max <= 0 {
		return nil
	}
	needle := strings.ToLower(term)

	type candidate struct {
		name string
		dist int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	for _, r := range records {
		name := r.PredictedTaxon
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(name))
		if dist == 0 || dist > maxSuggestDistance {
			continue
		}
		candidates = append(candidates, candidate{name: name, dist: dist})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
