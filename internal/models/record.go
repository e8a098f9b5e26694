// Package models defines core data structures for sequence records, queries, and search results.
package models

import "time"

// SequenceRecord is one classified eDNA sequence. Records are loaded once at
// startup and never mutated afterwards; the record store owns the canonical copy.
type SequenceRecord struct {
	ID                   string       `json:"id" db:"id"`
	PredictedTaxon       string       `json:"predicted_taxon" db:"predicted_taxon"`
	Confidence           float64      `json:"confidence" db:"confidence"`
	Novel                bool         `json:"novel" db:"novel"`
	Length               int          `json:"length" db:"length"`
	QualityScore         float64      `json:"quality_score" db:"quality_score"`
	ZoneID               string       `json:"zone_id" db:"zone_id"`
	FunctionalAnnotation string       `json:"functional_annotation" db:"functional_annotation"`
	SequenceData         string       `json:"sequence_data" db:"sequence_data"`
	Sample               SampleInfo   `json:"sample"`
	Analysis             AnalysisInfo `json:"analysis"`
}

// SampleInfo is the collection metadata nested in a record.
type SampleInfo struct {
	SampleID       string    `json:"sample_id" db:"sample_id"`
	CollectionDate time.Time `json:"collection_date" db:"collection_date"`
	HabitatType    string    `json:"habitat_type" db:"habitat_type"`
	DepthMeters    float64   `json:"depth_meters" db:"depth_meters"`
}

// AnalysisInfo is the pipeline metadata nested in a record.
type AnalysisInfo struct {
	Pipeline        string  `json:"pipeline" db:"pipeline"`
	DatabaseSource  string  `json:"database_source" db:"database_source"`
	ReadCount       int     `json:"read_count" db:"read_count"`
	IdentityPercent float64 `json:"identity_percent" db:"identity_percent"`
}

// Zone is a sampling zone records belong to.
type Zone struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	HabitatType string  `json:"habitat_type" db:"habitat_type"`
	DepthMeters float64 `json:"depth_meters" db:"depth_meters"`
	Description string  `json:"description" db:"description"`
}
