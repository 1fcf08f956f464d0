package doctree

import (
	"errors"
	"fmt"
)

// ErrUnreadableDocument is wrapped by every loader failure caused by the
// input itself. Retrying with the same bytes cannot succeed.
var ErrUnreadableDocument = errors.New("unreadable document")

// PageNotFoundError reports a page index outside [1, TotalPages].
type PageNotFoundError struct {
	Page       int
	TotalPages int
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %d not found: valid range is 1-%d", e.Page, e.TotalPages)
}

// UnsupportedFormatError reports an export format other than json or csv.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: must be json or csv", e.Format)
}

// UnsupportedGranularityError reports an unknown granularity selector.
type UnsupportedGranularityError struct {
	Value string
}

func (e *UnsupportedGranularityError) Error() string {
	return fmt.Sprintf("unsupported granularity %q: must be one of pages, page, whole, lines, sentences", e.Value)
}
