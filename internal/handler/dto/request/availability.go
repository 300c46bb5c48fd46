package request

import (
	"time"

	"tableplan/internal/domain/reservation"

	"github.com/google/uuid"
)

type CheckAvailabilityRequest struct {
	TableIDs        []uuid.UUID `json:"table_ids" binding:"required,min=1"`
	PartySize       int         `json:"party_size" binding:"required,min=1"`
	StartTime       time.Time   `json:"start_time" binding:"required"`
	DurationMinutes int         `json:"duration_minutes" binding:"omitempty,min=1"`
}

func (r CheckAvailabilityRequest) Window(defaultTurnTimeMin int) (reservation.Window, error) {
	return windowFromTurnTime(r.StartTime, r.DurationMinutes, defaultTurnTimeMin)
}

type SlotOptionsRequest struct {
	PartySize       int       `json:"party_size" binding:"required,min=1"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1"`
}

func (r SlotOptionsRequest) Window(defaultTurnTimeMin int) (reservation.Window, error) {
	return windowFromTurnTime(r.StartTime, r.DurationMinutes, defaultTurnTimeMin)
}

type SharedSeatsRequest struct {
	TableID         uuid.UUID `json:"table_id" binding:"required"`
	PartySize       int       `json:"party_size" binding:"required,min=1"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1"`
}

func (r SharedSeatsRequest) Window(defaultTurnTimeMin int) (reservation.Window, error) {
	return windowFromTurnTime(r.StartTime, r.DurationMinutes, defaultTurnTimeMin)
}

// windowFromTurnTime prefers the request's explicit duration, then the
// restaurant's configured turn time, then the house default.
func windowFromTurnTime(start time.Time, durationMinutes, defaultTurnTimeMin int) (reservation.Window, error) {
	if durationMinutes == 0 {
		durationMinutes = defaultTurnTimeMin
	}
	return reservation.NewWindowFromTurnTime(start, durationMinutes)
}
