//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	"tableplan/internal/usecase/queries"
	"tableplan/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTableSnapshots struct {
	tables []*table.Table
}

func (s *stubTableSnapshots) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]*table.Table, error) {
	var out []*table.Table
	for _, t := range s.tables {
		for _, id := range ids {
			if t.ID() == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (s *stubTableSnapshots) FindActiveByRestaurant(_ context.Context, _ uuid.UUID) ([]*table.Table, error) {
	var out []*table.Table
	for _, t := range s.tables {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubReservationSnapshots struct {
	reservations []*reservation.Reservation
}

func (s *stubReservationSnapshots) FindOverlapping(_ context.Context, _ uuid.UUID, _ reservation.Window) ([]*reservation.Reservation, error) {
	return s.reservations, nil
}

func window(t *testing.T, offset time.Duration, minutes int) reservation.Window {
	t.Helper()
	w, err := reservation.NewWindowFromTurnTime(builder.BaseTime.Add(offset), minutes)
	require.NoError(t, err)
	return w
}

func newAvailabilityQueries(tables []*table.Table, reservations []*reservation.Reservation) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(
		availability.NewQueryService(nil, 3),
		&stubTableSnapshots{tables: tables},
		&stubReservationSnapshots{reservations: reservations},
	)
}

func TestAvailabilityQueries_CheckTables(t *testing.T) {
	t.Run("conflict view carries guest detail", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithNumber("T2").Build()
		existing := builder.NewReservationBuilder().
			WithTableIDs(tbl.ID()).
			WithGuestName("Yamada").
			WithPartySize(4).
			Build()
		q := newAvailabilityQueries([]*table.Table{tbl}, []*reservation.Reservation{existing})

		view, err := q.CheckTables(context.Background(), uuid.New(), []uuid.UUID{tbl.ID()}, window(t, 0, 120), 2)
		require.NoError(t, err)

		assert.False(t, view.Available)
		require.Len(t, view.Conflicts, 1)
		c := view.Conflicts[0]
		assert.Equal(t, "T2", c.TableNumber)
		assert.Equal(t, "Yamada", c.GuestName)
		assert.Equal(t, 4, c.PartySize)
		assert.Equal(t, existing.ID(), c.BookingID)
	})

	t.Run("unknown table id", func(t *testing.T) {
		q := newAvailabilityQueries(nil, nil)

		_, err := q.CheckTables(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, window(t, 0, 120), 2)

		require.ErrorIs(t, err, queries.ErrTableNotFound)
	})
}

func TestAvailabilityQueries_OptionsForSlot(t *testing.T) {
	t.Run("maps the optimal assignment", func(t *testing.T) {
		t4 := builder.NewTableBuilder().WithNumber("T4").WithCapacity(4).Build()
		t6 := builder.NewTableBuilder().WithNumber("T6").WithCapacity(6).Build()
		q := newAvailabilityQueries([]*table.Table{t4, t6}, nil)

		view, err := q.OptionsForSlot(context.Background(), uuid.New(), window(t, 0, 120), 4)
		require.NoError(t, err)

		require.NotNil(t, view.Optimal)
		assert.Equal(t, []string{"T4"}, view.Optimal.TableNumbers)
		assert.False(t, view.Optimal.RequiresCombination)
		require.Len(t, view.SingleTables, 2)
		assert.Equal(t, "T4", view.SingleTables[0].Number)
	})

	t.Run("nothing fits yields empty options, not an error", func(t *testing.T) {
		small := builder.NewTableBuilder().WithCapacity(2).Build()
		q := newAvailabilityQueries([]*table.Table{small}, nil)

		view, err := q.OptionsForSlot(context.Background(), uuid.New(), window(t, 0, 120), 12)
		require.NoError(t, err)

		assert.Empty(t, view.SingleTables)
		assert.Empty(t, view.Combinations)
		assert.Nil(t, view.Optimal)
	})
}

func TestAvailabilityQueries_SharedSeats(t *testing.T) {
	communal := builder.NewTableBuilder().WithCapacity(10).AsShared(6).Build()
	existing := builder.NewReservationBuilder().WithTableIDs(communal.ID()).WithPartySize(4).Build()
	q := newAvailabilityQueries([]*table.Table{communal}, []*reservation.Reservation{existing})

	view, err := q.SharedSeats(context.Background(), uuid.New(), communal.ID(), window(t, 0, 120), 3)
	require.NoError(t, err)

	assert.True(t, view.Available)
	assert.Equal(t, 6, view.AvailableSeats)
	assert.Equal(t, 4, view.OccupiedSeats)
	assert.Equal(t, communal.ID(), view.TableID)
}
