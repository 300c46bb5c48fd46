package response

import (
	"time"

	"tableplan/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ConflictResponse struct {
	TableID     uuid.UUID `json:"tableId"`
	TableNumber string    `json:"tableNumber,omitempty"`
	BookingID   uuid.UUID `json:"bookingId"`
	GuestName   string    `json:"guestName"`
	PartySize   int       `json:"partySize"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
}

type SharedSeatsResponse struct {
	TableID        uuid.UUID `json:"tableId"`
	Available      bool      `json:"available"`
	AvailableSeats int       `json:"availableSeats"`
	OccupiedSeats  int       `json:"occupiedSeats"`
	Reason         string    `json:"reason,omitempty"`
}

type AvailabilityResponse struct {
	Available        bool                  `json:"available"`
	Conflicts        []ConflictResponse    `json:"conflicts,omitempty"`
	SharedSeats      []SharedSeatsResponse `json:"sharedSeats,omitempty"`
	InactiveTableIDs []uuid.UUID           `json:"inactiveTableIds,omitempty"`
}

type TableOptionResponse struct {
	TableID  uuid.UUID `json:"tableId"`
	Number   string    `json:"number"`
	Capacity int       `json:"capacity"`
}

type AssignmentResponse struct {
	TableIDs            []uuid.UUID `json:"tableIds"`
	TableNumbers        []string    `json:"tableNumbers"`
	TotalCapacity       int         `json:"totalCapacity"`
	RequiresCombination bool        `json:"requiresCombination"`
}

type SlotOptionsResponse struct {
	SingleTables []TableOptionResponse   `json:"singleTables"`
	Combinations [][]TableOptionResponse `json:"combinations"`
	Optimal      *AssignmentResponse     `json:"optimal,omitempty"`
}

func FromAvailabilityView(rm *queries.AvailabilityView) *AvailabilityResponse {
	var resp AvailabilityResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromSlotOptionsView(rm *queries.SlotOptionsView) *SlotOptionsResponse {
	var resp SlotOptionsResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromSharedSeatView(rm *queries.SharedSeatView) *SharedSeatsResponse {
	var resp SharedSeatsResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
