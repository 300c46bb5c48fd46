package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID   `json:"id"`
	RestaurantID     uuid.UUID   `json:"restaurant_id"`
	TableIDs         []uuid.UUID `json:"table_ids"`
	TableNumbers     []string    `json:"table_numbers"`
	GuestName        string      `json:"guest_name"`
	PartySize        int         `json:"party_size"`
	StartTime        time.Time   `json:"start_time"`
	EndTime          time.Time   `json:"end_time"`
	Status           string      `json:"status"`
	ConfirmationCode string      `json:"confirmation_code"`
	Note             *string     `json:"note,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID   `json:"id"`
	TableIDs     []uuid.UUID `json:"table_ids"`
	TableNumbers []string    `json:"table_numbers"`
	GuestName    string      `json:"guest_name"`
	PartySize    int         `json:"party_size"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListForDate(ctx context.Context, restaurantID uuid.UUID, day time.Time) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRestaurantAndRange(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingReadStore
}

func NewBookingQueries(repo BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListForDate(ctx context.Context, restaurantID uuid.UUID, day time.Time) ([]*BookingListItem, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)
	return q.repo.FindByRestaurantAndRange(ctx, restaurantID, from, to)
}
