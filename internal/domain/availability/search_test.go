//go:build unit

package availability_test

import (
	"testing"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	"tableplan/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearch() *availability.CombinationSearch {
	return availability.NewCombinationSearch(availability.NewConflictDetector(nil), 3)
}

func TestCombinationSearch_SingleTables(t *testing.T) {
	search := newSearch()

	t.Run("free fitting table is offered", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(4).WithMinCapacity(2).Build()

		candidates, err := search.FindCandidates([]*table.Table{tbl}, window(t, 0, 120), 3, nil)
		require.NoError(t, err)
		require.Len(t, candidates.SingleTables, 1)
		assert.Equal(t, tbl.ID(), candidates.SingleTables[0].ID())
	})

	t.Run("singles ordered tightest fit first", func(t *testing.T) {
		t8 := builder.NewTableBuilder().WithNumber("T8").WithCapacity(8).Build()
		t4 := builder.NewTableBuilder().WithNumber("T4").WithCapacity(4).Build()
		t6 := builder.NewTableBuilder().WithNumber("T6").WithCapacity(6).Build()

		candidates, err := search.FindCandidates([]*table.Table{t8, t4, t6}, window(t, 0, 120), 4, nil)
		require.NoError(t, err)
		require.Len(t, candidates.SingleTables, 3)
		assert.Equal(t, "T4", candidates.SingleTables[0].Number())
		assert.Equal(t, "T6", candidates.SingleTables[1].Number())
		assert.Equal(t, "T8", candidates.SingleTables[2].Number())
	})

	t.Run("table below party minimum is not a single", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(6).WithMinCapacity(4).Build()

		candidates, err := search.FindCandidates([]*table.Table{tbl}, window(t, 0, 120), 2, nil)
		require.NoError(t, err)
		assert.Empty(t, candidates.SingleTables)
	})

	t.Run("inactive and shared tables are skipped", func(t *testing.T) {
		inactive := builder.NewTableBuilder().AsInactive().Build()
		shared := builder.NewTableBuilder().AsShared(6).WithCapacity(10).Build()

		candidates, err := search.FindCandidates([]*table.Table{inactive, shared}, window(t, 0, 120), 2, nil)
		require.NoError(t, err)
		assert.True(t, candidates.IsEmpty())
	})

	t.Run("conflicting table is excluded", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		existing := builder.NewReservationBuilder().WithTableIDs(tbl.ID()).Build()

		candidates, err := search.FindCandidates(
			[]*table.Table{tbl}, window(t, 0, 120), 2,
			[]*reservation.Reservation{existing},
		)
		require.NoError(t, err)
		assert.True(t, candidates.IsEmpty())
	})

	t.Run("invalid party size rejected", func(t *testing.T) {
		_, err := search.FindCandidates(nil, window(t, 0, 120), 0, nil)
		require.ErrorIs(t, err, availability.ErrInvalidPartySize)
	})
}

func TestCombinationSearch_Combinations(t *testing.T) {
	search := newSearch()

	t.Run("party of six across two four-tops", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(4).Build()

		candidates, err := search.FindCandidates([]*table.Table{t1, t2}, window(t, 0, 120), 6, nil)
		require.NoError(t, err)

		assert.Empty(t, candidates.SingleTables)
		require.Len(t, candidates.Combinations, 1)
		require.Len(t, candidates.Combinations[0], 2)
		assert.Equal(t, "T1", candidates.Combinations[0][0].Number())
		assert.Equal(t, "T2", candidates.Combinations[0][1].Number())
	})

	t.Run("combinations ordered by size then overshoot", func(t *testing.T) {
		a := builder.NewTableBuilder().WithNumber("A").WithCapacity(2).Build()
		b := builder.NewTableBuilder().WithNumber("B").WithCapacity(4).Build()
		c := builder.NewTableBuilder().WithNumber("C").WithCapacity(6).Build()
		d := builder.NewTableBuilder().WithNumber("D").WithCapacity(8).Build()

		candidates, err := search.FindCandidates([]*table.Table{d, c, b, a}, window(t, 0, 120), 5, nil)
		require.NoError(t, err)
		require.NotEmpty(t, candidates.Combinations)

		// Tightest pair first: A+B seats 6 for a party of 5.
		first := candidates.Combinations[0]
		require.Len(t, first, 2)
		assert.Equal(t, "A", first[0].Number())
		assert.Equal(t, "B", first[1].Number())

		// All pairs precede all triples.
		sawTriple := false
		for _, combo := range candidates.Combinations {
			if len(combo) == 3 {
				sawTriple = true
			} else if sawTriple {
				t.Fatalf("pair found after triple in %v", combo)
			}
		}
	})

	t.Run("no combination larger than three tables", func(t *testing.T) {
		var tables []*table.Table
		for _, n := range []string{"T1", "T2", "T3", "T4"} {
			tables = append(tables, builder.NewTableBuilder().WithNumber(n).WithCapacity(2).Build())
		}

		// Only all four tables together could seat 8, so nothing qualifies.
		candidates, err := search.FindCandidates(tables, window(t, 0, 120), 8, nil)
		require.NoError(t, err)
		assert.Empty(t, candidates.Combinations)
	})

	t.Run("combination with a conflicted member is never offered", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(4).Build()
		t3 := builder.NewTableBuilder().WithNumber("T3").WithCapacity(4).Build()
		existing := builder.NewReservationBuilder().WithTableIDs(t2.ID()).Build()

		candidates, err := search.FindCandidates(
			[]*table.Table{t1, t2, t3}, window(t, 0, 120), 6,
			[]*reservation.Reservation{existing},
		)
		require.NoError(t, err)

		require.Len(t, candidates.Combinations, 1)
		for _, member := range candidates.Combinations[0] {
			assert.NotEqual(t, t2.ID(), member.ID())
		}
	})

	t.Run("combined minimum above party excludes the combination", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(6).WithMinCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(6).WithMinCapacity(4).Build()

		candidates, err := search.FindCandidates([]*table.Table{t1, t2}, window(t, 0, 120), 6, nil)
		require.NoError(t, err)
		assert.Empty(t, candidates.Combinations)
	})

	t.Run("combinations offered as alternates even when a single fits", func(t *testing.T) {
		big := builder.NewTableBuilder().WithNumber("T9").WithCapacity(8).Build()
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(4).Build()

		candidates, err := search.FindCandidates([]*table.Table{big, t1, t2}, window(t, 0, 120), 6, nil)
		require.NoError(t, err)

		assert.NotEmpty(t, candidates.SingleTables)
		assert.NotEmpty(t, candidates.Combinations)
	})
}
