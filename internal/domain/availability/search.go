package availability

import (
	"errors"
	"sort"

	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
)

var ErrInvalidPartySize = errors.New("party size must be at least 1")

const (
	minCombinationSize = 2
	// Dining rooms hold tens of tables; pairs and triples are the practical
	// ceiling for joined tables, and capping the subset size keeps the
	// search far from exponential.
	maxCombinationSize = 3
)

// Candidates holds every legal seating option for a slot. SingleTables and
// Combinations are each ordered tightest-fit first.
type Candidates struct {
	SingleTables []*table.Table
	Combinations [][]*table.Table
}

func (c Candidates) IsEmpty() bool {
	return len(c.SingleTables) == 0 && len(c.Combinations) == 0
}

type CombinationSearch struct {
	detector *ConflictDetector
	maxSize  int
}

func NewCombinationSearch(detector *ConflictDetector, maxSize int) *CombinationSearch {
	if maxSize < minCombinationSize {
		maxSize = minCombinationSize
	}
	if maxSize > maxCombinationSize {
		maxSize = maxCombinationSize
	}
	return &CombinationSearch{detector: detector, maxSize: maxSize}
}

// FindCandidates enumerates single tables and small multi-table combinations
// that can legally seat the party for the window. Shared tables are excluded;
// their seats are allocated additively, not exclusively.
func (s *CombinationSearch) FindCandidates(
	allTables []*table.Table,
	window reservation.Window,
	partySize int,
	snapshot []*reservation.Reservation,
) (Candidates, error) {
	if partySize < 1 {
		return Candidates{}, ErrInvalidPartySize
	}

	free := s.conflictFreeTables(allTables, window, snapshot)

	var singles []*table.Table
	for _, t := range free {
		if t.CanSeat(partySize) {
			singles = append(singles, t)
		}
	}
	sortTightestFit(singles, partySize)

	combos := s.searchCombinations(free, partySize)

	return Candidates{SingleTables: singles, Combinations: combos}, nil
}

func (s *CombinationSearch) conflictFreeTables(
	allTables []*table.Table,
	window reservation.Window,
	snapshot []*reservation.Reservation,
) []*table.Table {
	var free []*table.Table
	for _, t := range allTables {
		if !t.IsActive() || t.IsShared() {
			continue
		}
		if conflict, _ := s.detector.HasConflict(t, window, snapshot); conflict {
			continue
		}
		free = append(free, t)
	}
	return free
}

// searchCombinations walks subsets of bounded size over the conflict-free
// tables. A subset qualifies when its combined capacity covers the party and
// its combined minimum does not exceed it.
func (s *CombinationSearch) searchCombinations(free []*table.Table, partySize int) [][]*table.Table {
	// Deterministic member order inside each combination.
	pool := make([]*table.Table, len(free))
	copy(pool, free)
	sort.Slice(pool, func(i, j int) bool { return pool[i].Number() < pool[j].Number() })

	var combos [][]*table.Table
	n := len(pool)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair := []*table.Table{pool[i], pool[j]}
			if combinationSeats(pair, partySize) {
				combos = append(combos, pair)
			}
			if s.maxSize < 3 {
				continue
			}
			for k := j + 1; k < n; k++ {
				triple := []*table.Table{pool[i], pool[j], pool[k]}
				if combinationSeats(triple, partySize) {
					combos = append(combos, triple)
				}
			}
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		if len(combos[i]) != len(combos[j]) {
			return len(combos[i]) < len(combos[j])
		}
		return capacityOvershoot(combos[i], partySize) < capacityOvershoot(combos[j], partySize)
	})

	return combos
}

func combinationSeats(tables []*table.Table, partySize int) bool {
	var totalCapacity, totalMin int
	for _, t := range tables {
		totalCapacity += t.Capacity()
		totalMin += t.MinCapacity()
	}
	return totalCapacity >= partySize && totalMin <= partySize
}

func capacityOvershoot(tables []*table.Table, partySize int) int {
	var total int
	for _, t := range tables {
		total += t.Capacity()
	}
	diff := total - partySize
	if diff < 0 {
		return -diff
	}
	return diff
}

func sortTightestFit(tables []*table.Table, partySize int) {
	sort.SliceStable(tables, func(i, j int) bool {
		di := tables[i].Capacity() - partySize
		dj := tables[j].Capacity() - partySize
		if di != dj {
			return di < dj
		}
		return tables[i].Number() < tables[j].Number()
	})
}
