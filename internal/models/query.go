package models

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors returned at the mutation boundary. The prior valid state
// is always retained when one of these is returned.
var (
	ErrInvalidConfidence = errors.New("min confidence must be in [0,1]")
	ErrInvalidDateRange  = errors.New("date range start must not be after end")
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageLimit  = errors.New("page limit must be one of 25, 50, 100")
	ErrEmptyQuery        = errors.New("query cannot be empty")
)

// Novelty is the tri-state novel-taxon filter. An explicit enum rather than
// an optional bool, so "unset" is never conflated with "false".
type Novelty int

const (
	// NoveltyAny matches every record regardless of the novel flag.
	NoveltyAny Novelty = iota
	// NoveltyOnly matches only records flagged as novel taxa.
	NoveltyOnly
	// NoveltyExclude matches only records not flagged as novel taxa.
	NoveltyExclude
)

// FilterCriteria narrows the record set. All active criteria are ANDed.
// Taxon is a case-insensitive substring match; ZoneID is an exact match;
// empty strings mean no constraint.
type FilterCriteria struct {
	Novelty       Novelty    `json:"novelty"`
	MinConfidence float64    `json:"min_confidence"`
	Taxon         string     `json:"taxon,omitempty"`
	ZoneID        string     `json:"zone_id,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// Validate checks the criteria invariants. Out-of-range values are rejected,
// never clamped.
func (f *FilterCriteria) Validate() error {
	if f.MinConfidence < 0 || f.MinConfidence > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, f.MinConfidence)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return ErrInvalidDateRange
	}
	return nil
}

// FilterPatch is a partial filter update; nil fields leave the current
// criteria untouched.
type FilterPatch struct {
	Novelty       *Novelty   `json:"novelty,omitempty"`
	MinConfidence *float64   `json:"min_confidence,omitempty"`
	Taxon         *string    `json:"taxon,omitempty"`
	ZoneID        *string    `json:"zone_id,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// Apply returns a copy of base with the patch's non-nil fields written over it.
func (p FilterPatch) Apply(base FilterCriteria) FilterCriteria {
	out := base
	if p.Novelty != nil {
		out.Novelty = *p.Novelty
	}
	if p.MinConfidence != nil {
		out.MinConfidence = *p.MinConfidence
	}
	if p.Taxon != nil {
		out.Taxon = *p.Taxon
	}
	if p.ZoneID != nil {
		out.ZoneID = *p.ZoneID
	}
	if p.DateFrom != nil {
		out.DateFrom = p.DateFrom
	}
	if p.DateTo != nil {
		out.DateTo = p.DateTo
	}
	return out
}

// SortDirection orders ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable field keys. An unknown key is a recognized no-op (identity
// ordering), not an error.
const (
	SortByID         = "id"
	SortByTaxon      = "taxon"
	SortByConfidence = "confidence"
	SortByLength     = "length"
	SortByQuality    = "quality"
)

// SortConfig selects the sort key and direction for query results.
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// ValidPageLimits are the page sizes the pagination view accepts.
var ValidPageLimits = []int{25, 50, 100}

// PageRequest selects a page of the filtered, sorted sequence.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Validate checks the pagination invariants: page >= 1 and a whitelisted limit.
func (p *PageRequest) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if !ValidPageLimit(p.Limit) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageLimit, p.Limit)
	}
	return nil
}

// ValidPageLimit reports whether limit is one of the accepted page sizes.
func ValidPageLimit(limit int) bool {
	for _, l := range ValidPageLimits {
		if limit == l {
			return true
		}
	}
	return false
}
