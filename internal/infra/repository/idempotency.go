package repository

import (
	"context"
	"time"

	"tableplan/internal/infra"
	"tableplan/internal/infra/db"
	"tableplan/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(pool db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: pool}
}

func (r *IdempotencyRepository) TryInsert(
	ctx context.Context,
	key uuid.UUID,
	restaurantID uuid.UUID,
	endpoint, requestHash string,
	expiresAt time.Time,
) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, restaurant_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, restaurant_id) DO NOTHING
	`, key, restaurantID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, restaurantID uuid.UUID) (*commands.IdempotencyRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT key, restaurant_id, status, request_hash, result_booking_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND restaurant_id = $2
	`, key, restaurantID)

	var record commands.IdempotencyRecord
	err := row.Scan(
		&record.Key, &record.RestaurantID, &record.Status,
		&record.RequestHash, &record.ResultBookingID, &record.ExpiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, infra.WrapRepoErr("idempotency key expired", pgx.ErrNoRows)
	}

	return &record, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(
	ctx context.Context,
	tx db.DBTX,
	key uuid.UUID,
	restaurantID uuid.UUID,
	responseBodyHash string,
	resultBookingID uuid.UUID,
) error {
	_, err := tx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', response_body_hash = $3, result_booking_id = $4
		WHERE key = $1 AND restaurant_id = $2
	`, key, restaurantID, responseBodyHash, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < now()`)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
