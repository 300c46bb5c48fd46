package commands

import (
	"context"
	"time"

	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	"tableplan/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side ports. Snapshot reads here are separate from the query layer's
// read stores (CQRS separation); both may be backed by the same rows.

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	// UpdateStatus also refreshes the hold on booking_tables so terminal
	// statuses release the slot.
	UpdateStatus(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, status reservation.Status) error
}

type TableReads interface {
	FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]*table.Table, error)
	FindActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*table.Table, error)
}

type ReservationReads interface {
	FindOverlapping(ctx context.Context, restaurantID uuid.UUID, window reservation.Window) ([]*reservation.Reservation, error)
	// FindOverlappingInTx re-reads the snapshot under the caller's transaction
	// for shared-table seat re-validation.
	FindOverlappingInTx(ctx context.Context, tx db.DBTX, tableID uuid.UUID, window reservation.Window) ([]*reservation.Reservation, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key with status "processing". Returns false when
	// the key already exists, in which case Get decides replay vs duplicate.
	TryInsert(ctx context.Context, key uuid.UUID, restaurantID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, restaurantID uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, restaurantID uuid.UUID, responseBodyHash string, resultBookingID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	RestaurantID    uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
