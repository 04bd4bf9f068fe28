package sheetcore

import (
	"errors"
	"fmt"

	"github.com/javajack/sheetcore/store"
)

var (
	// ErrInvalidRegion is returned for regions with inverted or negative bounds.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidCount is returned for negative or zero row/column counts.
	ErrInvalidCount = errors.New("invalid count")
	// ErrOutOfSheet is returned when a position or region lies outside the sheet.
	ErrOutOfSheet = errors.New("outside sheet")
	// ErrMergeOverlap is returned when a merge would overlap an existing merge.
	ErrMergeOverlap = errors.New("merge overlaps existing merge")
)

func validateRegion(r store.Region) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}
	return nil
}

// checkBand validates a structural band of n rows or columns at index
// against an axis of the given length. insert allows index == length.
func checkBand(axis store.Axis, index, n, length int, insert bool) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d %ss", ErrInvalidCount, n, axis)
	}
	limit := length - n
	if insert {
		limit = length
	}
	if index < 0 || index > limit {
		return fmt.Errorf("%w: %s %d (+%d) of %d", ErrOutOfSheet, axis, index, n, length)
	}
	return nil
}
