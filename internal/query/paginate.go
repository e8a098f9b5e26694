package query

import "github.com/deepsea-edna/blueprint/internal/models"

// Paginate slices the ordered sequence into the half-open window
// [(page-1)*limit, page*limit), clipped to the available length. A page past
// the end yields empty data; the page number is never clamped.
func Paginate(seq []models.SequenceRecord, req models.PageRequest) models.Page {
	total := len(seq)
	start := (req.Page - 1) * req.Limit
	if start < 0 {
		start = 0
	}
	end := start + req.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}
	data := make([]models.SequenceRecord, end-start)
	copy(data, seq[start:end])
	return models.Page{
		Data:    data,
		Total:   total,
		HasNext: end < total,
		HasPrev: req.Page > 1,
	}
}
