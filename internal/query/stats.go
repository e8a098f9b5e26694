package query

import "github.com/deepsea-edna/blueprint/internal/models"

// Stats aggregates counts over seq. highConfidence is the inclusive
// confidence threshold for the high-confidence count. MeanConfidence is 0
// for an empty sequence.
func Stats(seq []models.SequenceRecord, highConfidence float64) models.Statistics {
	stats := models.Statistics{Total: len(seq)}
	if len(seq) == 0 {
		return stats
	}
	var sum float64
	for _, r := range seq {
		if r.Novel {
			stats.NovelCount++
		}
		if r.Confidence >= highConfidence {
			stats.HighConfidenceCount++
		}
		sum += r.Confidence
	}
	stats.MeanConfidence = sum / float64(len(seq))
	return stats
}
