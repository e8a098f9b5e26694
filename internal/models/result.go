package models

// Page is one page of a filtered, sorted record sequence.
// Concatenating Data for pages 1..ceil(Total/limit) reconstructs the full
// sequence with no gaps or duplicates.
type Page struct {
	Data    []SequenceRecord `json:"data"`
	Total   int              `json:"total"`
	HasNext bool             `json:"has_next"`
	HasPrev bool             `json:"has_prev"`
}

// Statistics are aggregate counts over a record sequence.
type Statistics struct {
	Total               int     `json:"total"`
	NovelCount          int     `json:"novel_count"`
	HighConfidenceCount int     `json:"high_confidence_count"`
	MeanConfidence      float64 `json:"mean_confidence"`
}
