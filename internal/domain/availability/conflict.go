package availability

import (
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"

	"github.com/google/uuid"
)

// Conflict reports an occupying reservation blocking a requested window,
// with enough detail for staff-facing display. The engine only reports
// conflicts; resolving them is the caller's business.
type Conflict struct {
	TableID     uuid.UUID
	Reservation *reservation.Reservation
}

// ConflictDetector tests exclusive-occupation overlap on non-shared tables
// against a status whitelist.
type ConflictDetector struct {
	occupying reservation.StatusSet
}

func NewConflictDetector(occupying reservation.StatusSet) *ConflictDetector {
	if occupying == nil {
		occupying = reservation.OccupyingStatuses()
	}
	return &ConflictDetector{occupying: occupying}
}

// HasConflict returns the first occupying reservation on the table whose
// window overlaps the requested one. Back-to-back windows do not conflict.
func (d *ConflictDetector) HasConflict(
	t *table.Table,
	window reservation.Window,
	snapshot []*reservation.Reservation,
) (bool, *reservation.Reservation) {
	for _, res := range snapshot {
		if !res.Occupies(t.ID()) {
			continue
		}
		if !res.IsOccupying(d.occupying) {
			continue
		}
		if res.Window().Overlaps(window) {
			return true, res
		}
	}
	return false, nil
}

// Conflicts returns every blocking reservation on the table for reporting.
func (d *ConflictDetector) Conflicts(
	t *table.Table,
	window reservation.Window,
	snapshot []*reservation.Reservation,
) []Conflict {
	var conflicts []Conflict
	for _, res := range snapshot {
		if !res.Occupies(t.ID()) || !res.IsOccupying(d.occupying) {
			continue
		}
		if res.Window().Overlaps(window) {
			conflicts = append(conflicts, Conflict{TableID: t.ID(), Reservation: res})
		}
	}
	return conflicts
}
