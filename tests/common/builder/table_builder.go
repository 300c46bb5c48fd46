//go:build unit

package builder

import (
	"time"

	"tableplan/internal/domain/table"

	"github.com/google/uuid"
)

type TableBuilder struct {
	ID                     uuid.UUID
	RestaurantID           uuid.UUID
	Number                 string
	Capacity               int
	MinCapacity            int
	Type                   table.TableType
	IsActive               bool
	Features               []string
	MaxPartySizePerBooking int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func NewTableBuilder() *TableBuilder {
	now := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	return &TableBuilder{
		ID:           uuid.New(),
		RestaurantID: uuid.New(),
		Number:       "T1",
		Capacity:     4,
		MinCapacity:  1,
		Type:         table.TypeStandard,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (b *TableBuilder) With(mutate func(*TableBuilder)) *TableBuilder {
	mutate(b)
	return b
}

func (b *TableBuilder) WithNumber(number string) *TableBuilder {
	b.Number = number
	return b
}

func (b *TableBuilder) WithCapacity(capacity int) *TableBuilder {
	b.Capacity = capacity
	return b
}

func (b *TableBuilder) WithMinCapacity(minCapacity int) *TableBuilder {
	b.MinCapacity = minCapacity
	return b
}

func (b *TableBuilder) WithType(t table.TableType) *TableBuilder {
	b.Type = t
	return b
}

func (b *TableBuilder) AsShared(maxPerBooking int) *TableBuilder {
	b.Type = table.TypeShared
	b.MaxPartySizePerBooking = maxPerBooking
	return b
}

func (b *TableBuilder) AsInactive() *TableBuilder {
	b.IsActive = false
	return b
}

func (b *TableBuilder) WithFeatures(features ...string) *TableBuilder {
	b.Features = features
	return b
}

// Build reconstructs the entity without constructor validation so tests can
// control every field, inactive state included.
func (b *TableBuilder) Build() *table.Table {
	return table.ReconstructTable(
		b.ID, b.RestaurantID, b.Number, b.Capacity, b.MinCapacity,
		b.Type, b.IsActive, b.Features, b.MaxPartySizePerBooking,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *TableBuilder) BuildDomain() (*table.Table, error) {
	return table.NewTable(
		b.ID, b.RestaurantID, b.Number, b.Capacity, b.MinCapacity,
		b.Type, b.Features, b.MaxPartySizePerBooking,
	)
}
