package repository

import (
	"context"

	"tableplan/internal/domain/reservation"
	"tableplan/internal/infra"
	"tableplan/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookingRepository persists reservations. Each referenced table gets a row
// in booking_tables; the exclusion constraint there is the last line of
// defense against double booking, so Create must report its violation as
// KindConflict.
type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(pool db.DBTX) *BookingRepository {
	return &BookingRepository{db: pool}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO bookings (
			id, restaurant_id, guest_name, party_size,
			start_time, end_time, status, confirmation_code, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		res.ID(), res.RestaurantID(), res.GuestName(), res.PartySize(),
		res.Window().Start(), res.Window().End(), res.Status().String(),
		res.ConfirmationCode(), res.Note(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert booking", err)
	}

	for _, tableID := range res.TableIDs() {
		_, err = tx.Exec(ctx, `
			INSERT INTO booking_tables (booking_id, table_id, during, blocking)
			SELECT $1, $2, tstzrange($3, $4, '[)'),
			       t.table_type <> 'shared' AND $5::text = ANY ($6::text[])
			FROM tables t WHERE t.id = $2
		`,
			res.ID(), tableID, res.Window().Start(), res.Window().End(),
			res.Status().String(), blockingStatuses(),
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to insert booking table", err)
		}
	}

	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, status reservation.Status) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1
	`, bookingID, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", pgx.ErrNoRows)
	}

	// Terminal statuses release the hold so the slot reopens immediately.
	_, err = tx.Exec(ctx, `
		UPDATE booking_tables bt
		SET blocking = b.status = ANY ($2::text[]) AND t.table_type <> 'shared'
		FROM bookings b, tables t
		WHERE bt.booking_id = $1 AND b.id = bt.booking_id AND t.id = bt.table_id
	`, bookingID, blockingStatuses())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking hold", err)
	}
	return nil
}

// blockingStatuses mirrors reservation.OccupyingStatuses for the partial
// exclusion constraint on booking_tables.
func blockingStatuses() []string {
	set := reservation.OccupyingStatuses()
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s.String())
	}
	return out
}
