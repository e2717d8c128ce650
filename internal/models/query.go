package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/halvard/munin/internal/apperr"
)

// DefaultLimit caps result lists when the caller does not ask for a limit.
const DefaultLimit = 20

// DateLayout is the accepted format for date-range filter values.
const DateLayout = "2006-01-02"

// Query describes one search request: optional free text plus structural
// filters. Structural filters are ANDed; the text match is each backend's
// own relevance method.
type Query struct {
	Text           string   `json:"text,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Type           string   `json:"type,omitempty"`
	Status         string   `json:"status,omitempty"`
	Category       string   `json:"category,omitempty"`
	DateFrom       string   `json:"date_from,omitempty"`
	DateTo         string   `json:"date_to,omitempty"`
	PathPattern    string   `json:"path_pattern,omitempty"`
	IncludeArchive bool     `json:"include_archive,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// Validate rejects malformed filter values. Errors wrap
// apperr.ErrInvalidQuery so callers can map them to a client fault.
func (q *Query) Validate() error {
	err := validation.ValidateStruct(q,
		validation.Field(&q.DateFrom, validation.Date(DateLayout)),
		validation.Field(&q.DateTo, validation.Date(DateLayout)),
		validation.Field(&q.Limit, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidQuery, err)
	}
	return nil
}

// EffectiveLimit returns the limit to apply, substituting DefaultLimit for
// an unset value.
func (q *Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}
