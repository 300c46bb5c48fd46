package availability

import (
	"errors"

	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
)

var ErrNotSharedTable = errors.New("table is not a shared table")

type SeatUnavailableReason string

const (
	InsufficientSeats    SeatUnavailableReason = "insufficient_seats"
	ExceedsPerBookingMax SeatUnavailableReason = "exceeds_per_booking_max"
)

type SeatAvailability struct {
	Available      bool
	AvailableSeats int
	OccupiedSeats  int
	Reason         SeatUnavailableReason
}

// SharedTableSeatAllocator does per-seat bookkeeping for communal tables.
// Overlapping reservations coexist; occupation is additive up to capacity,
// unlike the exclusive overlap rule on regular tables.
type SharedTableSeatAllocator struct {
	occupying reservation.StatusSet
}

func NewSharedTableSeatAllocator(occupying reservation.StatusSet) *SharedTableSeatAllocator {
	if occupying == nil {
		occupying = reservation.OccupyingStatuses()
	}
	return &SharedTableSeatAllocator{occupying: occupying}
}

// CheckSeatAvailability sums the party sizes of occupying reservations
// overlapping the window and reports the seats left for a new booking.
func (a *SharedTableSeatAllocator) CheckSeatAvailability(
	t *table.Table,
	window reservation.Window,
	partySize int,
	snapshot []*reservation.Reservation,
) (SeatAvailability, error) {
	if !t.IsShared() {
		return SeatAvailability{}, ErrNotSharedTable
	}
	if partySize < 1 {
		return SeatAvailability{}, ErrInvalidPartySize
	}

	occupied := 0
	for _, res := range snapshot {
		if !res.Occupies(t.ID()) || !res.IsOccupying(a.occupying) {
			continue
		}
		if res.Window().Overlaps(window) {
			occupied += res.PartySize()
		}
	}

	availableSeats := t.Capacity() - occupied
	if availableSeats < 0 {
		availableSeats = 0
	}

	result := SeatAvailability{
		AvailableSeats: availableSeats,
		OccupiedSeats:  occupied,
	}

	if limit := t.MaxPartySizePerBooking(); limit > 0 && partySize > limit {
		result.Reason = ExceedsPerBookingMax
		return result, nil
	}
	if partySize > availableSeats {
		result.Reason = InsufficientSeats
		return result, nil
	}

	result.Available = true
	return result, nil
}
