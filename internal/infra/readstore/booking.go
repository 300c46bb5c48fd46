package readstore

import (
	"context"
	"time"

	"tableplan/internal/domain/reservation"
	"tableplan/internal/infra"
	"tableplan/internal/infra/db"
	"tableplan/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingReadStore serves booking views for the API and reservation
// snapshots for the availability engine.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(pool db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: pool}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT b.id, b.restaurant_id,
		       array_agg(bt.table_id ORDER BY t.number),
		       array_agg(t.number ORDER BY t.number),
		       b.guest_name, b.party_size, b.start_time, b.end_time,
		       b.status, b.confirmation_code, b.note, b.created_at, b.updated_at
		FROM bookings b
		JOIN booking_tables bt ON bt.booking_id = b.id
		JOIN tables t ON t.id = bt.table_id
		WHERE b.id = $1
		GROUP BY b.id
	`, id)

	var v queries.BookingView
	var note string
	err := row.Scan(
		&v.ID, &v.RestaurantID, &v.TableIDs, &v.TableNumbers,
		&v.GuestName, &v.PartySize, &v.StartTime, &v.EndTime,
		&v.Status, &v.ConfirmationCode, &note, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	if note != "" {
		v.Note = &note
	}
	return &v, nil
}

func (r *BookingReadStore) FindByRestaurantAndRange(
	ctx context.Context,
	restaurantID uuid.UUID,
	from, to time.Time,
) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id,
		       array_agg(bt.table_id ORDER BY t.number),
		       array_agg(t.number ORDER BY t.number),
		       b.guest_name, b.party_size, b.start_time, b.end_time,
		       b.status, b.created_at
		FROM bookings b
		JOIN booking_tables bt ON bt.booking_id = b.id
		JOIN tables t ON t.id = bt.table_id
		WHERE b.restaurant_id = $1
		  AND b.start_time < $3 AND b.end_time > $2
		GROUP BY b.id
		ORDER BY b.start_time, b.created_at
	`, restaurantID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		err := rows.Scan(
			&item.ID, &item.TableIDs, &item.TableNumbers,
			&item.GuestName, &item.PartySize, &item.StartTime, &item.EndTime,
			&item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}

// FindOverlapping returns every reservation of the restaurant whose window
// intersects the given one, regardless of status; the engine applies its own
// occupying-status policy.
func (r *BookingReadStore) FindOverlapping(
	ctx context.Context,
	restaurantID uuid.UUID,
	window reservation.Window,
) ([]*reservation.Reservation, error) {
	return r.findOverlapping(ctx, r.db, `
		WHERE b.restaurant_id = $1
		  AND b.start_time < $3 AND b.end_time > $2
	`, restaurantID, window)
}

// FindOverlappingInTx narrows to a single table and runs on the caller's
// transaction, for shared-table seat re-validation.
func (r *BookingReadStore) FindOverlappingInTx(
	ctx context.Context,
	tx db.DBTX,
	tableID uuid.UUID,
	window reservation.Window,
) ([]*reservation.Reservation, error) {
	return r.findOverlapping(ctx, tx, `
		WHERE EXISTS (
			SELECT 1 FROM booking_tables x
			WHERE x.booking_id = b.id AND x.table_id = $1
		)
		  AND b.start_time < $3 AND b.end_time > $2
	`, tableID, window)
}

func (r *BookingReadStore) findOverlapping(
	ctx context.Context,
	q db.DBTX,
	where string,
	scopeID uuid.UUID,
	window reservation.Window,
) ([]*reservation.Reservation, error) {
	rows, err := q.Query(ctx, `
		SELECT b.id, b.restaurant_id,
		       array_agg(bt.table_id),
		       b.guest_name, b.party_size, b.start_time, b.end_time,
		       b.status, b.confirmation_code, b.note, b.created_at, b.updated_at
		FROM bookings b
		JOIN booking_tables bt ON bt.booking_id = b.id
	`+where+`
		GROUP BY b.id
	`, scopeID, window.Start(), window.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query overlapping bookings", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		var (
			id, restaurantID       uuid.UUID
			tableIDs               []uuid.UUID
			guestName, status      string
			partySize              int
			startTime, endTime     time.Time
			confirmationCode, note string
			createdAt, updatedAt   time.Time
		)
		err := rows.Scan(
			&id, &restaurantID, &tableIDs, &guestName, &partySize,
			&startTime, &endTime, &status, &confirmationCode, &note,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}

		w, err := reservation.NewWindow(startTime, endTime)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid window", err)
		}

		result = append(result, reservation.ReconstructReservation(
			id, restaurantID, tableIDs, guestName, partySize, w,
			reservation.Status(status), confirmationCode, note,
			createdAt, updatedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate overlapping bookings", err)
	}
	return result, nil
}

func (r *BookingReadStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE confirmation_code = $1)`,
		code,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check confirmation code", err)
	}
	return exists, nil
}
