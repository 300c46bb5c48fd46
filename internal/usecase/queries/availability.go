package queries

import (
	"context"
	"time"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	"tableplan/internal/infra"
	"tableplan/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound  = errs.New("table not found")
	ErrSnapshotFailed = errs.New("failed to load availability snapshot")
)

// ConflictView carries enough about a blocking reservation for staff display.
type ConflictView struct {
	TableID     uuid.UUID `json:"table_id"`
	TableNumber string    `json:"table_number,omitempty"`
	BookingID   uuid.UUID `json:"booking_id"`
	GuestName   string    `json:"guest_name"`
	PartySize   int       `json:"party_size"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

type SharedSeatView struct {
	TableID        uuid.UUID `json:"table_id"`
	Available      bool      `json:"available"`
	AvailableSeats int       `json:"available_seats"`
	OccupiedSeats  int       `json:"occupied_seats"`
	Reason         string    `json:"reason,omitempty"`
}

type AvailabilityView struct {
	Available        bool             `json:"available"`
	Conflicts        []ConflictView   `json:"conflicts,omitempty"`
	SharedSeats      []SharedSeatView `json:"shared_seats,omitempty"`
	InactiveTableIDs []uuid.UUID      `json:"inactive_table_ids,omitempty"`
}

type TableOptionView struct {
	TableID  uuid.UUID `json:"table_id"`
	Number   string    `json:"number"`
	Capacity int       `json:"capacity"`
}

type AssignmentView struct {
	TableIDs            []uuid.UUID `json:"table_ids"`
	TableNumbers        []string    `json:"table_numbers"`
	TotalCapacity       int         `json:"total_capacity"`
	RequiresCombination bool        `json:"requires_combination"`
}

type SlotOptionsView struct {
	SingleTables []TableOptionView   `json:"single_tables"`
	Combinations [][]TableOptionView `json:"combinations"`
	Optimal      *AssignmentView     `json:"optimal,omitempty"`
}

// TableSnapshotReadStore supplies table configuration as domain entities.
type TableSnapshotReadStore interface {
	FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]*table.Table, error)
	FindActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*table.Table, error)
}

// ReservationSnapshotReadStore supplies the in-flight reservations the
// engine checks against.
type ReservationSnapshotReadStore interface {
	FindOverlapping(ctx context.Context, restaurantID uuid.UUID, window reservation.Window) ([]*reservation.Reservation, error)
}

type AvailabilityQueries interface {
	CheckTables(ctx context.Context, restaurantID uuid.UUID, tableIDs []uuid.UUID, window reservation.Window, partySize int) (*AvailabilityView, error)
	OptionsForSlot(ctx context.Context, restaurantID uuid.UUID, window reservation.Window, partySize int) (*SlotOptionsView, error)
	SharedSeats(ctx context.Context, restaurantID uuid.UUID, tableID uuid.UUID, window reservation.Window, partySize int) (*SharedSeatView, error)
}

type availabilityQueriesImpl struct {
	engine           *availability.QueryService
	tableSnapshots   TableSnapshotReadStore
	bookingSnapshots ReservationSnapshotReadStore
}

func NewAvailabilityQueries(
	engine *availability.QueryService,
	tableSnapshots TableSnapshotReadStore,
	bookingSnapshots ReservationSnapshotReadStore,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		engine:           engine,
		tableSnapshots:   tableSnapshots,
		bookingSnapshots: bookingSnapshots,
	}
}

func (q *availabilityQueriesImpl) CheckTables(
	ctx context.Context,
	restaurantID uuid.UUID,
	tableIDs []uuid.UUID,
	window reservation.Window,
	partySize int,
) (*AvailabilityView, error) {
	tables, err := q.tableSnapshots.FindByIDs(ctx, restaurantID, tableIDs)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}
	if len(tables) != len(tableIDs) {
		return nil, ErrTableNotFound
	}

	snapshot, err := q.bookingSnapshots.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}

	decision, err := q.engine.CheckAvailability(tables, window, partySize, snapshot)
	if err != nil {
		return nil, err
	}

	return decisionToView(decision, tables), nil
}

func (q *availabilityQueriesImpl) OptionsForSlot(
	ctx context.Context,
	restaurantID uuid.UUID,
	window reservation.Window,
	partySize int,
) (*SlotOptionsView, error) {
	tables, err := q.tableSnapshots.FindActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}

	snapshot, err := q.bookingSnapshots.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}

	options, err := q.engine.GetOptionsForSlot(tables, window, partySize, snapshot)
	if err != nil {
		return nil, err
	}

	return optionsToView(options), nil
}

func (q *availabilityQueriesImpl) SharedSeats(
	ctx context.Context,
	restaurantID uuid.UUID,
	tableID uuid.UUID,
	window reservation.Window,
	partySize int,
) (*SharedSeatView, error) {
	tables, err := q.tableSnapshots.FindByIDs(ctx, restaurantID, []uuid.UUID{tableID})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}
	if len(tables) == 0 {
		return nil, ErrTableNotFound
	}

	snapshot, err := q.bookingSnapshots.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrSnapshotFailed)
	}

	result, err := q.engine.CheckSharedSeats(tables[0], window, partySize, snapshot)
	if err != nil {
		return nil, err
	}

	view := sharedSeatToView(tableID, result)
	return &view, nil
}

func decisionToView(decision availability.Decision, tables []*table.Table) *AvailabilityView {
	numbers := make(map[uuid.UUID]string, len(tables))
	for _, t := range tables {
		numbers[t.ID()] = t.Number()
	}

	view := &AvailabilityView{
		Available:        decision.Available,
		InactiveTableIDs: decision.InactiveTableIDs,
	}
	for _, c := range decision.Conflicts {
		res := c.Reservation
		view.Conflicts = append(view.Conflicts, ConflictView{
			TableID:     c.TableID,
			TableNumber: numbers[c.TableID],
			BookingID:   res.ID(),
			GuestName:   res.GuestName(),
			PartySize:   res.PartySize(),
			StartTime:   res.Window().Start(),
			EndTime:     res.Window().End(),
			Status:      res.Status().String(),
		})
	}
	for _, check := range decision.SharedSeatChecks {
		view.SharedSeats = append(view.SharedSeats, sharedSeatToView(check.TableID, check.Result))
	}
	return view
}

func sharedSeatToView(tableID uuid.UUID, result availability.SeatAvailability) SharedSeatView {
	return SharedSeatView{
		TableID:        tableID,
		Available:      result.Available,
		AvailableSeats: result.AvailableSeats,
		OccupiedSeats:  result.OccupiedSeats,
		Reason:         string(result.Reason),
	}
}

func optionsToView(options availability.SlotOptions) *SlotOptionsView {
	view := &SlotOptionsView{
		SingleTables: make([]TableOptionView, len(options.SingleTables)),
		Combinations: make([][]TableOptionView, len(options.Combinations)),
	}
	for i, t := range options.SingleTables {
		view.SingleTables[i] = tableOptionView(t)
	}
	for i, combo := range options.Combinations {
		row := make([]TableOptionView, len(combo))
		for j, t := range combo {
			row[j] = tableOptionView(t)
		}
		view.Combinations[i] = row
	}
	if options.Optimal != nil {
		view.Optimal = &AssignmentView{
			TableIDs:            options.Optimal.TableIDs,
			TableNumbers:        options.Optimal.TableNumbers,
			TotalCapacity:       options.Optimal.TotalCapacity,
			RequiresCombination: options.Optimal.RequiresCombination,
		}
	}
	return view
}

func tableOptionView(t *table.Table) TableOptionView {
	return TableOptionView{
		TableID:  t.ID(),
		Number:   t.Number(),
		Capacity: t.Capacity(),
	}
}
