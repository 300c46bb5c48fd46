package reservation

import (
	"errors"
	"fmt"
	"time"
)

const DefaultTurnTimeMinutes = 120

var ErrInvalidWindow = errors.New("invalid time window")

// Window is a half-open [start, end) occupation interval.
type Window struct {
	start time.Time
	end   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start, end: end}, nil
}

// NewWindowFromTurnTime derives the end from the expected turn time.
// A zero turnTimeMinutes falls back to the house default.
func NewWindowFromTurnTime(start time.Time, turnTimeMinutes int) (Window, error) {
	if turnTimeMinutes == 0 {
		turnTimeMinutes = DefaultTurnTimeMinutes
	}
	if turnTimeMinutes < 0 {
		return Window{}, ErrInvalidWindow
	}
	return NewWindow(start, start.Add(time.Duration(turnTimeMinutes)*time.Minute))
}

func (w Window) Start() time.Time {
	return w.start
}

func (w Window) End() time.Time {
	return w.end
}

func (w Window) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps reports half-open interval intersection. Touching windows
// (one ending exactly when the other starts) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w Window) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

func (w Window) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}
