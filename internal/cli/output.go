// Package cli renders query results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/deepsea-edna/blueprint/internal/models"
	"github.com/deepsea-edna/blueprint/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WritePage writes one page of results to w in the given format.
func WritePage(w io.Writer, page models.Page, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, page)
	}
	fmt.Fprintf(w, "\n%d records total (page has %d, prev=%v next=%v)\n\n",
		page.Total, len(page.Data), page.HasPrev, page.HasNext)
	for _, r := range page.Data {
		writeRecord(w, r)
	}
	return nil
}

func writeRecord(w io.Writer, r models.SequenceRecord) {
	fmt.Fprintln(w, strings.Repeat("─", 60))
	novel := ""
	if r.Novel {
		novel = " [NOVEL]"
	}
	fmt.Fprintf(w, "%s  %s%s\n", r.ID, r.PredictedTaxon, novel)
	fmt.Fprintf(w, "  confidence: %.2f | length: %d bp | quality: %.1f | zone: %s\n",
		r.Confidence, r.Length, r.QualityScore, r.ZoneID)
	if r.FunctionalAnnotation != "" {
		fmt.Fprintf(w, "  annotation: %s\n", r.FunctionalAnnotation)
	}
	if r.SequenceData != "" {
		fmt.Fprintf(w, "  sequence: %s\n", utils.Truncate(r.SequenceData, 48))
	}
}

// WriteStatistics writes aggregate counts to w in the given format.
func WriteStatistics(w io.Writer, stats models.Statistics, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "total:            %d\n", stats.Total)
	fmt.Fprintf(w, "novel taxa:       %d\n", stats.NovelCount)
	fmt.Fprintf(w, "high confidence:  %d\n", stats.HighConfidenceCount)
	fmt.Fprintf(w, "mean confidence:  %.3f\n", stats.MeanConfidence)
	return nil
}

// WriteZones writes the zone collection to w in the given format.
func WriteZones(w io.Writer, zones []models.Zone, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, zones)
	}
	for _, z := range zones {
		fmt.Fprintf(w, "%-12s %-20s %-20s %6.0fm\n", z.ID, z.Name, z.HabitatType, z.DepthMeters)
	}
	return nil
}

// WriteHistory writes history entries, most recent first.
func WriteHistory(w io.Writer, entries []models.HistoryEntry, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history")
		return nil
	}
	for _, e := range entries {
		q := e.Query
		if q == "" {
			q = "(all records)"
		}
		fmt.Fprintf(w, "%s  %-30s %d results\n", e.Timestamp.Format("2006-01-02 15:04:05"), q, e.ResultCount)
	}
	return nil
}

// WriteJob writes a search job snapshot.
func WriteJob(w io.Writer, job models.SearchJob, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, job)
	}
	fmt.Fprintf(w, "job %s (%q): %s", job.ID, job.Query, job.Status)
	switch job.Status {
	case models.JobComplete:
		fmt.Fprintf(w, ", %d results", len(job.Result))
	case models.JobFailed:
		fmt.Fprintf(w, ": %s", job.Err)
	}
	fmt.Fprintln(w)
	return nil
}

// WriteSuggestions writes "did you mean" taxa when a search matched nothing.
func WriteSuggestions(w io.Writer, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(w, "did you mean: %s?\n", strings.Join(suggestions, ", "))
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
