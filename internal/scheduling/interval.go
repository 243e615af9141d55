package scheduling

import (
	"time"

	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

// Interval is a half-open time range [Start, End). Adjacent intervals do
// not overlap, so back-to-back bookings on the same equipment are legal.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Validate rejects zero-length and inverted intervals.
func (iv Interval) Validate() error {
	if !iv.End.After(iv.Start) {
		return apperrors.Validation(
			"invalid interval: end (%s) must be after start (%s)",
			iv.End.Format(time.RFC3339), iv.Start.Format(time.RFC3339),
		)
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect:
// a.Start < b.End && b.Start < a.End.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Conflict describes the first overlap found between a proposed interval
// and an existing booking on the same equipment.
type Conflict struct {
	EquipmentID int64
	Existing    Interval
}

// FindConflict linearly scans the existing intervals for one that overlaps
// the proposal. Existing order does not matter; the scan is bounded by the
// number of bookings a single piece of clinic equipment realistically has.
func FindConflict(equipmentID int64, proposed Interval, existing []Interval) *Conflict {
	for _, b := range existing {
		if proposed.Overlaps(b) {
			return &Conflict{EquipmentID: equipmentID, Existing: b}
		}
	}
	return nil
}
