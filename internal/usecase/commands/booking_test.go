//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	reqdto "tableplan/internal/handler/dto/request"
	"tableplan/internal/infra"
	"tableplan/internal/infra/db"
	"tableplan/internal/pkg/clock"
	"tableplan/internal/pkg/config"
	"tableplan/internal/usecase/commands"
	"tableplan/internal/usecase/queries"
	"tableplan/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExclusionViolation mimics the no-overlap constraint firing on insert.
func fakeExclusionViolation() error {
	return &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}
}

// ---- hand-written stubs ------------------------------------------------

type stubTxRunner struct {
	serializableCalls int
	regularCalls      int
}

func (s *stubTxRunner) RunInTx(_ context.Context, fn func(tx db.DBTX) error) error {
	s.regularCalls++
	return fn(nil)
}

func (s *stubTxRunner) RunInSerializableTx(_ context.Context, fn func(tx db.DBTX) error) error {
	s.serializableCalls++
	return fn(nil)
}

type stubBookingRepo struct {
	created       []*reservation.Reservation
	statusUpdates []reservation.Status
	err           error
}

func (s *stubBookingRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.created = append(s.created, res)
	return res.ID(), nil
}

func (s *stubBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, _ uuid.UUID, status reservation.Status) error {
	if s.err != nil {
		return s.err
	}
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

type stubTableReads struct {
	tables []*table.Table
}

func (s *stubTableReads) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]*table.Table, error) {
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

func (s *stubTableReads) FindActiveByRestaurant(_ context.Context, _ uuid.UUID) ([]*table.Table, error) {
	var out []*table.Table
	for _, t := range s.tables {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubReservationReads struct {
	overlapping []*reservation.Reservation
	inTx        []*reservation.Reservation
	codeTaken   bool
}

func (s *stubReservationReads) FindOverlapping(_ context.Context, _ uuid.UUID, _ reservation.Window) ([]*reservation.Reservation, error) {
	return s.overlapping, nil
}

func (s *stubReservationReads) FindOverlappingInTx(_ context.Context, _ db.DBTX, _ uuid.UUID, _ reservation.Window) ([]*reservation.Reservation, error) {
	return s.inTx, nil
}

func (s *stubReservationReads) CodeExists(_ context.Context, _ string) (bool, error) {
	return s.codeTaken, nil
}

type stubIdempotencyRepo struct {
	existing  *commands.IdempotencyRecord
	completed int
}

func (s *stubIdempotencyRepo) TryInsert(_ context.Context, _, _ uuid.UUID, _, _ string, _ time.Time) (bool, error) {
	return s.existing == nil, nil
}

func (s *stubIdempotencyRepo) Get(_ context.Context, _, _ uuid.UUID) (*commands.IdempotencyRecord, error) {
	return s.existing, nil
}

func (s *stubIdempotencyRepo) UpdateStatusCompleted(_ context.Context, _ db.DBTX, _, _ uuid.UUID, _ string, _ uuid.UUID) error {
	s.completed++
	return nil
}

func (s *stubIdempotencyRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type stubNotificationRepo struct {
	jobs int
}

func (s *stubNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, _, _ string, _ []byte, _ time.Time) error {
	s.jobs++
	return nil
}

type stubBookingQueries struct {
	lastID uuid.UUID
	view   *queries.BookingView
	err    error
}

func (s *stubBookingQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	if s.view != nil {
		return s.view, nil
	}
	return &queries.BookingView{ID: id}, nil
}

func (s *stubBookingQueries) ListForDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]*queries.BookingListItem, error) {
	return nil, nil
}

// ---- fixture -----------------------------------------------------------

type fixture struct {
	uc           commands.BookingCommands
	bookingRepo  *stubBookingRepo
	tableReads   *stubTableReads
	resReads     *stubReservationReads
	idempotency  *stubIdempotencyRepo
	notification *stubNotificationRepo
	queries      *stubBookingQueries
	tx           *stubTxRunner
	restaurantID uuid.UUID
}

func newFixture(tables []*table.Table, overlapping []*reservation.Reservation) *fixture {
	return newFixtureWithPolicy(tables, overlapping, config.NewTestConfig().Booking)
}

func newFixtureWithPolicy(tables []*table.Table, overlapping []*reservation.Reservation, cfg config.BookingConfig) *fixture {
	f := &fixture{
		bookingRepo:  &stubBookingRepo{},
		tableReads:   &stubTableReads{tables: tables},
		resReads:     &stubReservationReads{overlapping: overlapping, inTx: overlapping},
		idempotency:  &stubIdempotencyRepo{},
		notification: &stubNotificationRepo{},
		queries:      &stubBookingQueries{},
		tx:           &stubTxRunner{},
		restaurantID: uuid.New(),
	}
	f.uc = commands.NewBookingUseCase(
		f.bookingRepo,
		f.tableReads,
		f.resReads,
		f.idempotency,
		f.notification,
		f.queries,
		availability.NewQueryService(nil, cfg.MaxCombinationSize),
		f.tx,
		clock.NewMockClock(builder.BaseTime),
		cfg,
	)
	return f
}

func validRequest(tableIDs ...uuid.UUID) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		GuestName: "Ishikawa",
		PartySize: 2,
		StartTime: builder.BaseTime,
		TableIDs:  tableIDs,
	}
}

// ---- tests -------------------------------------------------------------

func TestCreateBooking_Explicit(t *testing.T) {
	t.Run("free table books and writes side effects", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		f := newFixture([]*table.Table{tbl}, nil)

		result, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())
		require.NoError(t, err)

		assert.False(t, result.IsReplayed)
		require.Len(t, f.bookingRepo.created, 1)
		created := f.bookingRepo.created[0]
		assert.Equal(t, []uuid.UUID{tbl.ID()}, created.TableIDs())
		assert.Equal(t, reservation.StatusConfirmed, created.Status())
		assert.Len(t, created.ConfirmationCode(), 6)
		assert.Equal(t, 1, f.notification.jobs)
		assert.Equal(t, 1, f.idempotency.completed)
		assert.Equal(t, 1, f.tx.regularCalls)
	})

	t.Run("overlapping reservation is rejected before any write", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		existing := builder.NewReservationBuilder().WithTableIDs(tbl.ID()).Build()
		f := newFixture([]*table.Table{tbl}, []*reservation.Reservation{existing})

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrBookingConflict)
		assert.Empty(t, f.bookingRepo.created)
		assert.Zero(t, f.notification.jobs)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newFixture(nil, nil)

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(uuid.New()), uuid.New())

		require.ErrorIs(t, err, commands.ErrTableNotFound)
	})

	t.Run("inactive table", func(t *testing.T) {
		tbl := builder.NewTableBuilder().AsInactive().Build()
		f := newFixture([]*table.Table{tbl}, nil)

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrTableNotActive)
	})

	t.Run("exclusion constraint race maps to conflict", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		f := newFixture([]*table.Table{tbl}, nil)
		f.bookingRepo.err = infra.WrapRepoErr("insert booking", fakeExclusionViolation())

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrBookingConflict)
	})
}

func TestCreateBooking_TurnTime(t *testing.T) {
	t.Run("configured turn time sets the window when none is requested", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		cfg := config.NewTestConfig().Booking
		cfg.DefaultTurnTimeMin = 90
		f := newFixtureWithPolicy([]*table.Table{tbl}, nil, cfg)

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())
		require.NoError(t, err)

		require.Len(t, f.bookingRepo.created, 1)
		assert.Equal(t, 90*time.Minute, f.bookingRepo.created[0].Window().Duration())
	})

	t.Run("explicit duration wins over the configured default", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		cfg := config.NewTestConfig().Booking
		cfg.DefaultTurnTimeMin = 90
		f := newFixtureWithPolicy([]*table.Table{tbl}, nil, cfg)

		req := validRequest(tbl.ID())
		req.DurationMinutes = 45
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())
		require.NoError(t, err)

		require.Len(t, f.bookingRepo.created, 1)
		assert.Equal(t, 45*time.Minute, f.bookingRepo.created[0].Window().Duration())
	})
}

func TestCreateBooking_Capacity(t *testing.T) {
	t.Run("party over capacity is a hard stop", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(4).Build()
		f := newFixture([]*table.Table{tbl}, nil)

		req := validRequest(tbl.ID())
		req.PartySize = 5
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())

		require.ErrorIs(t, err, commands.ErrCapacityTooSmall)
	})

	t.Run("below minimum needs explicit override", func(t *testing.T) {
		tbl := builder.NewTableBuilder().WithCapacity(8).WithMinCapacity(4).Build()
		f := newFixture([]*table.Table{tbl}, nil)

		req := validRequest(tbl.ID())
		req.PartySize = 2
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())

		require.ErrorIs(t, err, commands.ErrBelowCombinedMinimum)
		var minErr *commands.MinimumCapacityError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, 2, minErr.Result.Shortfall)
		require.Len(t, minErr.Result.Violations, 1)
		assert.Equal(t, tbl.ID(), minErr.Result.Violations[0].TableID)

		req.AllowBelowMinimum = true
		result, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})
}

func TestCreateBooking_AutoAssign(t *testing.T) {
	t.Run("picks the tightest single table", func(t *testing.T) {
		t4 := builder.NewTableBuilder().WithNumber("T4").WithCapacity(4).Build()
		t6 := builder.NewTableBuilder().WithNumber("T6").WithCapacity(6).Build()
		f := newFixture([]*table.Table{t6, t4}, nil)

		req := validRequest()
		req.PartySize = 4
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())
		require.NoError(t, err)

		require.Len(t, f.bookingRepo.created, 1)
		assert.Equal(t, []uuid.UUID{t4.ID()}, f.bookingRepo.created[0].TableIDs())
	})

	t.Run("combines tables when no single fits", func(t *testing.T) {
		t1 := builder.NewTableBuilder().WithNumber("T1").WithCapacity(4).Build()
		t2 := builder.NewTableBuilder().WithNumber("T2").WithCapacity(4).Build()
		f := newFixture([]*table.Table{t1, t2}, nil)

		req := validRequest()
		req.PartySize = 6
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())
		require.NoError(t, err)

		require.Len(t, f.bookingRepo.created, 1)
		assert.ElementsMatch(t, []uuid.UUID{t1.ID(), t2.ID()}, f.bookingRepo.created[0].TableIDs())
	})

	t.Run("fully booked restaurant", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		existing := builder.NewReservationBuilder().WithTableIDs(tbl.ID()).Build()
		f := newFixture([]*table.Table{tbl}, []*reservation.Reservation{existing})

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(), uuid.New())

		require.ErrorIs(t, err, commands.ErrNoTablesAvailable)
	})

	t.Run("no active tables at all", func(t *testing.T) {
		inactive := builder.NewTableBuilder().AsInactive().Build()
		f := newFixture([]*table.Table{inactive}, nil)

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(), uuid.New())

		require.ErrorIs(t, err, commands.ErrNoActiveTables)
	})
}

func TestCreateBooking_SharedTable(t *testing.T) {
	communal := func() *table.Table {
		return builder.NewTableBuilder().WithNumber("C1").WithCapacity(10).AsShared(6).Build()
	}

	t.Run("books seats under serializable isolation", func(t *testing.T) {
		tbl := communal()
		f := newFixture([]*table.Table{tbl}, nil)

		req := validRequest(tbl.ID())
		req.PartySize = 4
		result, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())
		require.NoError(t, err)

		assert.False(t, result.IsReplayed)
		assert.Equal(t, 1, f.tx.serializableCalls)
		assert.Zero(t, f.tx.regularCalls)
	})

	t.Run("insufficient seats", func(t *testing.T) {
		tbl := communal()
		existing := builder.NewReservationBuilder().WithTableIDs(tbl.ID()).WithPartySize(8).Build()
		f := newFixture([]*table.Table{tbl}, []*reservation.Reservation{existing})

		req := validRequest(tbl.ID())
		req.PartySize = 4
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())

		require.ErrorIs(t, err, commands.ErrSharedSeatsUnavailable)
	})

	t.Run("per-booking maximum", func(t *testing.T) {
		tbl := communal()
		f := newFixture([]*table.Table{tbl}, nil)

		req := validRequest(tbl.ID())
		req.PartySize = 7
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())

		require.ErrorIs(t, err, commands.ErrExceedsPerBookingMax)
	})

	t.Run("in-transaction re-check catches a racing booking", func(t *testing.T) {
		tbl := communal()
		f := newFixture([]*table.Table{tbl}, nil)
		// Snapshot was clean at pre-check time; another booking landed
		// before our transaction re-read it.
		f.resReads.inTx = []*reservation.Reservation{
			builder.NewReservationBuilder().WithTableIDs(tbl.ID()).WithPartySize(9).Build(),
		}

		req := validRequest(tbl.ID())
		req.PartySize = 4
		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, req, uuid.New())

		require.ErrorIs(t, err, commands.ErrSharedSeatsUnavailable)
		assert.Empty(t, f.bookingRepo.created)
	})

	t.Run("shared table cannot join a combination", func(t *testing.T) {
		tbl := communal()
		other := builder.NewTableBuilder().Build()
		f := newFixture([]*table.Table{tbl, other}, nil)

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID(), other.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestCreateBooking_Idempotency(t *testing.T) {
	tbl := builder.NewTableBuilder().Build()

	t.Run("completed key replays the stored booking", func(t *testing.T) {
		f := newFixture([]*table.Table{tbl}, nil)
		bookingID := uuid.New()
		f.idempotency.existing = &commands.IdempotencyRecord{
			Status:          "completed",
			ResultBookingID: &bookingID,
		}

		result, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())
		require.NoError(t, err)

		assert.True(t, result.IsReplayed)
		assert.Equal(t, bookingID, result.Booking.ID)
		assert.Empty(t, f.bookingRepo.created)
	})

	t.Run("same key with a different payload is a duplicate", func(t *testing.T) {
		f := newFixture([]*table.Table{tbl}, nil)
		f.idempotency.existing = &commands.IdempotencyRecord{
			Status:      "processing",
			RequestHash: "different",
		}

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrDuplicateBooking)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	storedView := func(f *fixture, status reservation.Status) *queries.BookingView {
		return &queries.BookingView{
			ID:           uuid.New(),
			RestaurantID: f.restaurantID,
			TableIDs:     []uuid.UUID{uuid.New()},
			GuestName:    "Mori",
			PartySize:    2,
			StartTime:    builder.BaseTime,
			EndTime:      builder.BaseTime.Add(2 * time.Hour),
			Status:       status.String(),
		}
	}

	t.Run("cancelling a confirmed booking releases the hold", func(t *testing.T) {
		f := newFixture(nil, nil)
		view := storedView(f, reservation.StatusConfirmed)
		f.queries.view = view

		updated, err := f.uc.UpdateBookingStatus(context.Background(), f.restaurantID, view.ID, reservation.StatusCancelled)
		require.NoError(t, err)

		assert.Equal(t, []reservation.Status{reservation.StatusCancelled}, f.bookingRepo.statusUpdates)
		assert.Equal(t, 1, f.tx.regularCalls)
		assert.NotNil(t, updated)
	})

	t.Run("terminal bookings are immutable", func(t *testing.T) {
		f := newFixture(nil, nil)
		view := storedView(f, reservation.StatusCompleted)
		f.queries.view = view

		_, err := f.uc.UpdateBookingStatus(context.Background(), f.restaurantID, view.ID, reservation.StatusCancelled)

		require.ErrorIs(t, err, commands.ErrInvalidStatusTransition)
		assert.Empty(t, f.bookingRepo.statusUpdates)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newFixture(nil, nil)
		view := storedView(f, reservation.StatusConfirmed)
		f.queries.view = view

		_, err := f.uc.UpdateBookingStatus(context.Background(), f.restaurantID, view.ID, reservation.Status("teleported"))

		require.ErrorIs(t, err, commands.ErrInvalidStatusTransition)
	})

	t.Run("booking of another restaurant is not visible", func(t *testing.T) {
		f := newFixture(nil, nil)
		view := storedView(f, reservation.StatusConfirmed)
		view.RestaurantID = uuid.New()
		f.queries.view = view

		_, err := f.uc.UpdateBookingStatus(context.Background(), f.restaurantID, view.ID, reservation.StatusCancelled)

		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(nil, nil)
		f.queries.err = infra.WrapRepoErr("booking not found", pgx.ErrNoRows)

		_, err := f.uc.UpdateBookingStatus(context.Background(), f.restaurantID, uuid.New(), reservation.StatusCancelled)

		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestCreateBooking_ConfirmationCode(t *testing.T) {
	t.Run("exhausts bounded retries when every code collides", func(t *testing.T) {
		tbl := builder.NewTableBuilder().Build()
		f := newFixture([]*table.Table{tbl}, nil)
		f.resReads.codeTaken = true

		_, err := f.uc.CreateBooking(context.Background(), f.restaurantID, validRequest(tbl.ID()), uuid.New())

		require.ErrorIs(t, err, commands.ErrCodeGenerationExhausted)
		assert.Empty(t, f.bookingRepo.created)
	})
}
