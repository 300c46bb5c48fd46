//go:build unit

package builder

import (
	"time"

	"tableplan/internal/domain/reservation"

	"github.com/google/uuid"
)

// BaseTime is the fixed evening anchor shared by availability tests.
var BaseTime = time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

type ReservationBuilder struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	TableIDs         []uuid.UUID
	GuestName        string
	PartySize        int
	Start            time.Time
	DurationMin      int
	Status           reservation.Status
	ConfirmationCode string
	Note             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := BaseTime.Add(-6 * time.Hour)
	return &ReservationBuilder{
		ID:               uuid.New(),
		RestaurantID:     uuid.New(),
		TableIDs:         []uuid.UUID{uuid.New()},
		GuestName:        "Dana Whitfield",
		PartySize:        2,
		Start:            BaseTime,
		DurationMin:      reservation.DefaultTurnTimeMinutes,
		Status:           reservation.StatusConfirmed,
		ConfirmationCode: "QX7R2M",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithTableIDs(ids ...uuid.UUID) *ReservationBuilder {
	b.TableIDs = ids
	return b
}

func (b *ReservationBuilder) WithGuestName(name string) *ReservationBuilder {
	b.GuestName = name
	return b
}

func (b *ReservationBuilder) WithPartySize(size int) *ReservationBuilder {
	b.PartySize = size
	return b
}

func (b *ReservationBuilder) WithStart(start time.Time) *ReservationBuilder {
	b.Start = start
	return b
}

func (b *ReservationBuilder) WithDuration(minutes int) *ReservationBuilder {
	b.DurationMin = minutes
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) Window() reservation.Window {
	w, err := reservation.NewWindowFromTurnTime(b.Start, b.DurationMin)
	if err != nil {
		panic(err)
	}
	return w
}

// Build reconstructs the entity, bypassing constructor validation.
func (b *ReservationBuilder) Build() *reservation.Reservation {
	return reservation.ReconstructReservation(
		b.ID, b.RestaurantID, b.TableIDs, b.GuestName, b.PartySize,
		b.Window(), b.Status, b.ConfirmationCode, b.Note,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	return reservation.NewReservation(
		b.RestaurantID, b.TableIDs, b.GuestName, b.PartySize,
		b.Window(), b.Status, b.ConfirmationCode, b.Note,
	)
}
