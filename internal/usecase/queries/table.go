package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TableView struct {
	ID                     uuid.UUID `json:"id"`
	RestaurantID           uuid.UUID `json:"restaurant_id"`
	Number                 string    `json:"number"`
	Capacity               int       `json:"capacity"`
	MinCapacity            int       `json:"min_capacity"`
	TableType              string    `json:"table_type"`
	IsActive               bool      `json:"is_active"`
	Features               []string  `json:"features"`
	MaxPartySizePerBooking int       `json:"max_party_size_per_booking,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type TableQueries interface {
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, includeInactive bool) ([]*TableView, error)
}

type TableViewReadStore interface {
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, includeInactive bool) ([]*TableView, error)
}

type tableQueriesImpl struct {
	repo TableViewReadStore
}

func NewTableQueries(repo TableViewReadStore) TableQueries {
	return &tableQueriesImpl{repo: repo}
}

func (q *tableQueriesImpl) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, includeInactive bool) ([]*TableView, error) {
	return q.repo.FindByRestaurant(ctx, restaurantID, includeInactive)
}
