//go:build unit

package availability_test

import (
	"testing"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/table"
	"tableplan/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCapacity(t *testing.T) {
	t.Run("party fits a single table", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(4).WithMinCapacity(2).Build()

		result := availability.ValidateCapacity([]*table.Table{tbl}, 3)

		assert.True(t, result.Valid)
		assert.Equal(t, 4, result.TotalCapacity)
		assert.Equal(t, 2, result.TotalMinCapacity)
		assert.Empty(t, result.Violations)
	})

	t.Run("party too large is a hard stop", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(4).Build()

		result := availability.ValidateCapacity([]*table.Table{tbl}, 5)

		assert.False(t, result.Valid)
		assert.Equal(t, availability.CapacityTooSmall, result.Reason)
	})

	t.Run("party below minimum is distinguishable and lists violators", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithNumber("T3").WithCapacity(6).WithMinCapacity(4).Build()

		result := availability.ValidateCapacity([]*table.Table{tbl}, 1)

		assert.False(t, result.Valid)
		assert.Equal(t, availability.BelowCombinedMinimum, result.Reason)
		assert.Equal(t, 3, result.Shortfall)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, tbl.ID(), result.Violations[0].TableID)
		assert.Equal(t, "T3", result.Violations[0].Number)
		assert.Equal(t, 4, result.Violations[0].MinCapacity)
		assert.Equal(t, 3, result.Violations[0].Shortfall)
	})

	t.Run("combination floor is the sum of member minimums", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(6).WithMinCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(6).WithMinCapacity(4).Build()

		// Each table alone would accept 6, but combined the floor is 8.
		result := availability.ValidateCapacity([]*table.Table{t1, t2}, 6)

		assert.False(t, result.Valid)
		assert.Equal(t, availability.BelowCombinedMinimum, result.Reason)
		assert.Equal(t, 8, result.TotalMinCapacity)
		assert.Equal(t, 2, result.Shortfall)
	})

	t.Run("combination covering the party", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithCapacity(4).WithMinCapacity(2).Build()
		t2 := builder.NewTableBuilder().WithCapacity(4).WithMinCapacity(2).Build()

		result := availability.ValidateCapacity([]*table.Table{t1, t2}, 6)

		assert.True(t, result.Valid)
		assert.Equal(t, 8, result.TotalCapacity)
	})

	t.Run("party exactly at combined capacity", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithCapacity(4).Build()

		result := availability.ValidateCapacity([]*table.Table{t1, t2}, 8)
		assert.True(t, result.Valid)
	})
}
