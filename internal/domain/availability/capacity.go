package availability

import (
	"tableplan/internal/domain/table"

	"github.com/google/uuid"
)

type CapacityReason string

const (
	// CapacityTooSmall: the party exceeds the set's combined maximum.
	// Hard stop, never override-able.
	CapacityTooSmall CapacityReason = "capacity_too_small"
	// BelowCombinedMinimum: the party is under the sum of each member
	// table's minimum. Override-able by explicit staff confirmation.
	BelowCombinedMinimum CapacityReason = "below_combined_minimum"
)

// MinimumViolation identifies a table whose configured minimum exceeds the
// requested party size, so the caller can present an override prompt.
type MinimumViolation struct {
	TableID     uuid.UUID
	Number      string
	MinCapacity int
	Shortfall   int
}

type CapacityResult struct {
	Valid            bool
	Reason           CapacityReason
	TotalCapacity    int
	TotalMinCapacity int
	// Shortfall is the combined-minimum gap when Reason is
	// BelowCombinedMinimum.
	Shortfall  int
	Violations []MinimumViolation
}

// ValidateCapacity checks a candidate table set's seat range against the
// party size. The combination's floor is the sum of each member's minimum:
// every table enforces its own minimum even when combined.
func ValidateCapacity(tables []*table.Table, partySize int) CapacityResult {
	var totalCapacity, totalMin int
	for _, t := range tables {
		totalCapacity += t.Capacity()
		totalMin += t.MinCapacity()
	}

	result := CapacityResult{
		TotalCapacity:    totalCapacity,
		TotalMinCapacity: totalMin,
	}

	if partySize > totalCapacity {
		result.Reason = CapacityTooSmall
		return result
	}

	if partySize < totalMin {
		result.Reason = BelowCombinedMinimum
		result.Shortfall = totalMin - partySize
		for _, t := range tables {
			if t.MinCapacity() > partySize {
				result.Violations = append(result.Violations, MinimumViolation{
					TableID:     t.ID(),
					Number:      t.Number(),
					MinCapacity: t.MinCapacity(),
					Shortfall:   t.MinCapacity() - partySize,
				})
			}
		}
		return result
	}

	result.Valid = true
	return result
}
