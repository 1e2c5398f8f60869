package query

import (
	"errors"
	"strconv"
	"strings"
)

// Limits accepted by the search endpoint for the number of results to collect
const (
	MinSearchQty = 1
	MaxSearchQty = 100
)

var (
	// ErrMissingTerm is returned when a search is requested without a term
	ErrMissingTerm = errors.New("search term is required")
	// ErrInvalidQty is returned when the requested quantity is out of range
	ErrInvalidQty = errors.New("qty must be between 1 and 100")
)

// SearchRequest describes a search/ingest run on the backend
type SearchRequest struct {
	Term        string
	Qty         int // 0 lets the backend choose
	DateFrom    string
	DateTo      string
	EnrichDates bool
}

// Validate rejects requests that must not reach the backend
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Term) == "" {
		return ErrMissingTerm
	}
	if r.Qty != 0 && (r.Qty < MinSearchQty || r.Qty > MaxSearchQty) {
		return ErrInvalidQty
	}
	return validateRange(r.DateFrom, r.DateTo)
}

// Params returns the query string of a POST /search request
func (r SearchRequest) Params() map[string]string {
	params := map[string]string{"term": strings.TrimSpace(r.Term)}
	if r.Qty > 0 {
		params["qty"] = strconv.Itoa(r.Qty)
	}
	setIfPresent(params, "date_from", r.DateFrom)
	setIfPresent(params, "date_to", r.DateTo)
	if r.EnrichDates {
		params["enrich_dates"] = "true"
	}
	return params
}
