package readingstate

import (
	"errors"
	"fmt"
	"time"
)

// MaxRating is the highest user rating accepted.
const MaxRating = 5

var ErrInvalidPatch = errors.New("invalid reading state")

// Patch is a sparse set of reading-state values. A nil field is absent and
// leaves the stored value alone.
//
// Omitting a field can never clear it. The only clearing sentinel is an
// empty Notes string, which stores NULL.
type Patch struct {
	Status      *string
	CurrentPage *int
	UserRating  *int
	Notes       *string
	StartedDate *time.Time
	ReadDate    *time.Time
}

// IsEmpty reports whether no field is present.
func (p Patch) IsEmpty() bool {
	return p.Status == nil &&
		p.CurrentPage == nil &&
		p.UserRating == nil &&
		p.Notes == nil &&
		p.StartedDate == nil &&
		p.ReadDate == nil
}

// Validate checks the supplied values.
func (p Patch) Validate() error {
	if p.Status != nil && *p.Status == "" {
		return fmt.Errorf("%w: status must not be empty", ErrInvalidPatch)
	}
	if p.CurrentPage != nil && *p.CurrentPage < 0 {
		return fmt.Errorf("%w: current page must not be negative", ErrInvalidPatch)
	}
	if p.UserRating != nil && (*p.UserRating < 0 || *p.UserRating > MaxRating) {
		return fmt.Errorf("%w: rating must be between 0 and %d", ErrInvalidPatch, MaxRating)
	}
	return nil
}

// Columns returns the user_books columns the patch writes.
func (p Patch) Columns() map[string]any {
	columns := make(map[string]any)
	if p.Status != nil {
		columns["status"] = *p.Status
	}
	if p.CurrentPage != nil {
		columns["current_page"] = *p.CurrentPage
	}
	if p.UserRating != nil {
		columns["user_rating"] = *p.UserRating
	}
	if p.Notes != nil {
		if *p.Notes == "" {
			columns["notes"] = nil
		} else {
			columns["notes"] = *p.Notes
		}
	}
	if p.StartedDate != nil {
		columns["started_date"] = *p.StartedDate
	}
	if p.ReadDate != nil {
		columns["read_date"] = *p.ReadDate
	}
	return columns
}
