package availability

import (
	"github.com/google/uuid"

	"tableplan/internal/domain/table"
)

// Assignment is the engine's suggested seating for a party.
type Assignment struct {
	TableIDs            []uuid.UUID
	TableNumbers        []string
	TotalCapacity       int
	RequiresCombination bool
}

// SelectOptimal ranks candidates and picks the best seating: a single table
// beats any combination, then fewest tables, then tightest capacity fit.
// The second return is false when no candidate exists; that is a normal
// outcome (waitlist territory), not an error.
func SelectOptimal(candidates Candidates) (*Assignment, bool) {
	if len(candidates.SingleTables) > 0 {
		best := candidates.SingleTables[0]
		return &Assignment{
			TableIDs:      []uuid.UUID{best.ID()},
			TableNumbers:  []string{best.Number()},
			TotalCapacity: best.Capacity(),
		}, true
	}

	if len(candidates.Combinations) > 0 {
		best := candidates.Combinations[0]
		return assignmentFromCombination(best), true
	}

	return nil, false
}

func assignmentFromCombination(combo []*table.Table) *Assignment {
	a := &Assignment{
		TableIDs:            make([]uuid.UUID, len(combo)),
		TableNumbers:        make([]string, len(combo)),
		RequiresCombination: true,
	}
	for i, t := range combo {
		a.TableIDs[i] = t.ID()
		a.TableNumbers[i] = t.Number()
		a.TotalCapacity += t.Capacity()
	}
	return a
}
