package table

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTableNumber     = errors.New("table number cannot be empty")
	ErrInvalidCapacity      = errors.New("capacity must be at least 1")
	ErrInvalidMinCapacity   = errors.New("minimum capacity cannot exceed capacity")
	ErrInvalidTableType     = errors.New("invalid table type")
	ErrInvalidPerBookingMax = errors.New("per-booking maximum only applies to shared tables")
)

type Table struct {
	id                     uuid.UUID
	restaurantID           uuid.UUID
	number                 string
	capacity               int
	minCapacity            int
	tableType              TableType
	isActive               bool
	features               []string
	maxPartySizePerBooking int
	createdAt              time.Time
	updatedAt              time.Time
}

// NewTable validates restaurant configuration for a seating unit.
// minCapacity defaults to 1 when zero; maxPartySizePerBooking is only
// meaningful for shared tables (0 means unlimited).
func NewTable(
	id, restaurantID uuid.UUID,
	number string,
	capacity, minCapacity int,
	tableType TableType,
	features []string,
	maxPartySizePerBooking int,
) (*Table, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrEmptyTableNumber
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if minCapacity == 0 {
		minCapacity = 1
	}
	if minCapacity < 0 || minCapacity > capacity {
		return nil, ErrInvalidMinCapacity
	}
	if !tableType.IsValid() {
		return nil, ErrInvalidTableType
	}
	if maxPartySizePerBooking != 0 && !tableType.IsShared() {
		return nil, ErrInvalidPerBookingMax
	}
	if maxPartySizePerBooking < 0 {
		return nil, ErrInvalidPerBookingMax
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Table{
		id:                     id,
		restaurantID:           restaurantID,
		number:                 number,
		capacity:               capacity,
		minCapacity:            minCapacity,
		tableType:              tableType,
		isActive:               true,
		features:               features,
		maxPartySizePerBooking: maxPartySizePerBooking,
	}, nil
}

func ReconstructTable(
	id, restaurantID uuid.UUID,
	number string,
	capacity, minCapacity int,
	tableType TableType,
	isActive bool,
	features []string,
	maxPartySizePerBooking int,
	createdAt, updatedAt time.Time,
) *Table {
	return &Table{
		id:                     id,
		restaurantID:           restaurantID,
		number:                 number,
		capacity:               capacity,
		minCapacity:            minCapacity,
		tableType:              tableType,
		isActive:               isActive,
		features:               features,
		maxPartySizePerBooking: maxPartySizePerBooking,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

func (t *Table) IsShared() bool {
	return t.tableType.IsShared()
}

func (t *Table) HasFeature(feature string) bool {
	for _, f := range t.features {
		if f == feature {
			return true
		}
	}
	return false
}

// CanSeat reports whether the table alone may legally seat the party.
func (t *Table) CanSeat(partySize int) bool {
	return partySize >= t.minCapacity && partySize <= t.capacity
}

func (t *Table) Deactivate() {
	t.isActive = false
}

func (t *Table) ID() uuid.UUID               { return t.id }
func (t *Table) RestaurantID() uuid.UUID     { return t.restaurantID }
func (t *Table) Number() string              { return t.number }
func (t *Table) Capacity() int               { return t.capacity }
func (t *Table) MinCapacity() int            { return t.minCapacity }
func (t *Table) Type() TableType             { return t.tableType }
func (t *Table) IsActive() bool              { return t.isActive }
func (t *Table) Features() []string          { return t.features }
func (t *Table) MaxPartySizePerBooking() int { return t.maxPartySizePerBooking }
func (t *Table) CreatedAt() time.Time        { return t.createdAt }
func (t *Table) UpdatedAt() time.Time        { return t.updatedAt }
