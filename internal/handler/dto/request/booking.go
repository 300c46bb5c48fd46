package request

import (
	"strings"
	"time"

	"tableplan/internal/domain/reservation"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	GuestName       string    `json:"guest_name" binding:"required"`
	PartySize       int       `json:"party_size" binding:"required,min=1"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1"`

	// Empty means the engine picks the assignment.
	TableIDs          []uuid.UUID `json:"table_ids,omitempty"`
	AllowBelowMinimum bool        `json:"allow_below_minimum,omitempty"`
	Note              *string     `json:"note,omitempty"`
}

func (r CreateBookingRequest) Window(defaultTurnTimeMin int) (reservation.Window, error) {
	return windowFromTurnTime(r.StartTime, r.DurationMinutes, defaultTurnTimeMin)
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateBookingStatusRequest) DomainStatus() reservation.Status {
	return reservation.Status(r.Status)
}

func (r CreateBookingRequest) TrimmedNote() *string {
	if r.Note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
