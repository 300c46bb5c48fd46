package availability

import (
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"

	"github.com/google/uuid"
)

// QueryService composes the engine's checks into the two questions the rest
// of the system asks: "is this table set free?" and "what are my options for
// this party size?". It is pure; every call recomputes from the supplied
// snapshot and the answer is only valid at the instant it is produced; the
// caller owns the check-then-write atomicity.
type QueryService struct {
	detector  *ConflictDetector
	search    *CombinationSearch
	allocator *SharedTableSeatAllocator
}

func NewQueryService(occupying reservation.StatusSet, maxCombinationSize int) *QueryService {
	detector := NewConflictDetector(occupying)
	return &QueryService{
		detector:  detector,
		search:    NewCombinationSearch(detector, maxCombinationSize),
		allocator: NewSharedTableSeatAllocator(occupying),
	}
}

// SharedSeatCheck reports the allocator's verdict for one shared table.
type SharedSeatCheck struct {
	TableID uuid.UUID
	Result  SeatAvailability
}

// Decision is the answer to a specific-table availability check.
type Decision struct {
	Available        bool
	Conflicts        []Conflict
	SharedSeatChecks []SharedSeatCheck
	InactiveTableIDs []uuid.UUID
}

// SlotOptions is the answer to an open "what fits this party?" query.
// Optimal is nil when nothing fits, which is a legitimate negative result.
type SlotOptions struct {
	SingleTables []*table.Table
	Combinations [][]*table.Table
	Optimal      *Assignment
}

// CheckAvailability runs the conflict detector over each requested table, or
// the seat allocator for shared tables. Available is true iff every table
// passes.
func (s *QueryService) CheckAvailability(
	tables []*table.Table,
	window reservation.Window,
	partySize int,
	snapshot []*reservation.Reservation,
) (Decision, error) {
	decision := Decision{Available: true}

	for _, t := range tables {
		if !t.IsActive() {
			decision.Available = false
			decision.InactiveTableIDs = append(decision.InactiveTableIDs, t.ID())
			continue
		}

		if t.IsShared() {
			result, err := s.allocator.CheckSeatAvailability(t, window, partySize, snapshot)
			if err != nil {
				return Decision{}, err
			}
			decision.SharedSeatChecks = append(decision.SharedSeatChecks, SharedSeatCheck{
				TableID: t.ID(),
				Result:  result,
			})
			if !result.Available {
				decision.Available = false
			}
			continue
		}

		if conflicts := s.detector.Conflicts(t, window, snapshot); len(conflicts) > 0 {
			decision.Available = false
			decision.Conflicts = append(decision.Conflicts, conflicts...)
		}
	}

	return decision, nil
}

// GetOptionsForSlot finds every single table and bounded combination that can
// seat the party, plus the optimal pick.
func (s *QueryService) GetOptionsForSlot(
	allTables []*table.Table,
	window reservation.Window,
	partySize int,
	snapshot []*reservation.Reservation,
) (SlotOptions, error) {
	candidates, err := s.search.FindCandidates(allTables, window, partySize, snapshot)
	if err != nil {
		return SlotOptions{}, err
	}

	options := SlotOptions{
		SingleTables: candidates.SingleTables,
		Combinations: candidates.Combinations,
	}
	if optimal, ok := SelectOptimal(candidates); ok {
		options.Optimal = optimal
	}
	return options, nil
}

// CheckSharedSeats exposes the allocator for the shared-table booking flow.
func (s *QueryService) CheckSharedSeats(
	t *table.Table,
	window reservation.Window,
	partySize int,
	snapshot []*reservation.Reservation,
) (SeatAvailability, error) {
	return s.allocator.CheckSeatAvailability(t, window, partySize, snapshot)
}
