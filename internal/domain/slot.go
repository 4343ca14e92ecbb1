package domain

import (
	"time"

	"github.com/proserv/PS-BookingService/pkg/types"
)

// SlotState represents the derived availability state of a time slot
type SlotState string

const (
	SlotOpen   SlotState = "open"   // no hold and no active booking
	SlotHeld   SlotState = "held"   // provisional hold by an in-progress reservation
	SlotBooked SlotState = "booked" // referenced by a non-cancelled booking
)

// TimeSlot represents one bookable time unit of a professional on one date.
// Start times are unique within (professional, date).
type TimeSlot struct {
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	Price          float64
	State          SlotState
}

// IsOpen returns true if the slot can currently be held
func (s *TimeSlot) IsOpen() bool {
	return s.State == SlotOpen
}

// SlotHold represents a provisional, time-bounded exclusive claim on a slot.
// It must be paired with a booking creation before ExpiresAt, after which
// the hold lapses automatically.
type SlotHold struct {
	Token          string
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	ExpiresAt      time.Time
}
