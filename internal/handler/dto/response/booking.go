package response

import (
	"time"

	"tableplan/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID               uuid.UUID   `json:"id"`
	RestaurantID     uuid.UUID   `json:"restaurantId"`
	TableIDs         []uuid.UUID `json:"tableIds"`
	TableNumbers     []string    `json:"tableNumbers"`
	GuestName        string      `json:"guestName"`
	PartySize        int         `json:"partySize"`
	StartTime        time.Time   `json:"startTime"`
	EndTime          time.Time   `json:"endTime"`
	Status           string      `json:"status"`
	ConfirmationCode string      `json:"confirmationCode"`
	Note             *string     `json:"note,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type BookingListResponse struct {
	ID           uuid.UUID   `json:"id"`
	TableIDs     []uuid.UUID `json:"tableIds"`
	TableNumbers []string    `json:"tableNumbers"`
	GuestName    string      `json:"guestName"`
	PartySize    int         `json:"partySize"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      time.Time   `json:"endTime"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
