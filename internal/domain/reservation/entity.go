package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoTables          = errors.New("reservation must reference at least one table")
	ErrDuplicateTable    = errors.New("reservation references the same table twice")
	ErrInvalidPartySize  = errors.New("party size must be at least 1")
	ErrInvalidStatus     = errors.New("invalid reservation status")
	ErrEmptyGuestName    = errors.New("guest name cannot be empty")
	ErrSharedMultiTable  = errors.New("a shared-table reservation occupies exactly one table")
	ErrAlreadyFinalized  = errors.New("reservation is already in a terminal status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Reservation struct {
	id               uuid.UUID
	restaurantID     uuid.UUID
	tableIDs         []uuid.UUID
	guestName        string
	partySize        int
	window           Window
	status           Status
	confirmationCode string
	note             string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewReservation(
	restaurantID uuid.UUID,
	tableIDs []uuid.UUID,
	guestName string,
	partySize int,
	window Window,
	status Status,
	confirmationCode string,
	note string,
) (*Reservation, error) {
	if len(tableIDs) == 0 {
		return nil, ErrNoTables
	}
	seen := make(map[uuid.UUID]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateTable
		}
		seen[id] = struct{}{}
	}
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}
	if window.IsZero() {
		return nil, ErrInvalidWindow
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, ErrEmptyGuestName
	}

	return &Reservation{
		id:               uuid.New(),
		restaurantID:     restaurantID,
		tableIDs:         tableIDs,
		guestName:        guestName,
		partySize:        partySize,
		window:           window,
		status:           status,
		confirmationCode: confirmationCode,
		note:             strings.TrimSpace(note),
	}, nil
}

func ReconstructReservation(
	id, restaurantID uuid.UUID,
	tableIDs []uuid.UUID,
	guestName string,
	partySize int,
	window Window,
	status Status,
	confirmationCode string,
	note string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		restaurantID:     restaurantID,
		tableIDs:         tableIDs,
		guestName:        guestName,
		partySize:        partySize,
		window:           window,
		status:           status,
		confirmationCode: confirmationCode,
		note:             note,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Occupies reports whether this reservation references the given table.
func (r *Reservation) Occupies(tableID uuid.UUID) bool {
	for _, id := range r.tableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}

// IsOccupying reports whether the reservation holds its tables under the
// given status policy.
func (r *Reservation) IsOccupying(occupying StatusSet) bool {
	return occupying.Contains(r.status)
}

func (r *Reservation) IsTerminal() bool {
	switch r.status {
	case StatusCompleted, StatusCancelled, StatusDeclined, StatusNoShow:
		return true
	default:
		return false
	}
}

// TransitionTo applies a lifecycle status change. Terminal reservations are
// immutable.
func (r *Reservation) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if r.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if next == r.status {
		return ErrInvalidTransition
	}
	r.status = next
	return nil
}

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) RestaurantID() uuid.UUID  { return r.restaurantID }
func (r *Reservation) TableIDs() []uuid.UUID    { return r.tableIDs }
func (r *Reservation) GuestName() string        { return r.guestName }
func (r *Reservation) PartySize() int           { return r.partySize }
func (r *Reservation) Window() Window           { return r.window }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) ConfirmationCode() string { return r.confirmationCode }
func (r *Reservation) Note() string             { return r.note }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time     { return r.updatedAt }
