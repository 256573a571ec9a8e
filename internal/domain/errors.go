package domain

import (
	"errors"
	"fmt"
)

// Load failure causes. Callers decide how to recover from each.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidDate       = errors.New("invalid date")
)

// Load failure reasons reported by ClassifyLoadError.
const (
	ReasonSourceUnavailable = "source_unavailable"
	ReasonMissingColumn     = "missing_column"
	ReasonInvalidDate       = "invalid_date"
	ReasonUnknown           = "unknown"
)

// MissingColumnError reports a required canonical column that no header
// resolved to.
type MissingColumnError struct {
	Column Column
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// DateParseError reports a date cell that could not be parsed. Row is the
// 1-based row number in the sheet, counting the header row.
type DateParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s at row %d: %q: %v", ErrInvalidDate, e.Row, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() []error { return []error{ErrInvalidDate, e.Err} }

// ClassifyLoadError maps a load error to a stable reason label for logs and metrics.
func ClassifyLoadError(err error) string {
	switch {
	case errors.Is(err, ErrSourceUnavailable):
		return ReasonSourceUnavailable
	case errors.Is(err, ErrMissingColumn):
		return ReasonMissingColumn
	case errors.Is(err, ErrInvalidDate):
		return ReasonInvalidDate
	default:
		return ReasonUnknown
	}
}
