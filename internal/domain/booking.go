package domain

import (
	"time"

	"github.com/proserv/PS-BookingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusAccepted   BookingStatus = "accepted"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusDisputed   BookingStatus = "disputed"
)

// ActorRole represents the role of the party acting on a booking
type ActorRole string

const (
	RoleClient       ActorRole = "client"
	RoleProfessional ActorRole = "professional"
)

// IsValid returns true if the role is a recognized actor role
func (r ActorRole) IsValid() bool {
	return r == RoleClient || r == RoleProfessional
}

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents one client-professional engagement and its lifecycle
type Booking struct {
	ID             int64
	ProfessionalID int64
	ClientID       int64
	ServiceID      int64
	Price          float64
	ScheduledDate  time.Time
	ScheduledTime  types.TimeString
	Status         BookingStatus
	PaymentStatus  PaymentStatus

	// Project details collected by the reservation workflow
	ProjectTitle string
	Description  string
	Budget       *float64

	// Client contact snapshot
	ContactName  string
	ContactEmail string
	ContactPhone string

	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry represents one append-only status change record of a booking.
// Creation itself is the first entry, so the history is never empty.
type HistoryEntry struct {
	ID                 int64
	BookingID          int64
	Status             BookingStatus
	ActorID            int64
	ActorRole          ActorRole
	Message            *string
	CancellationReason *string
	CreatedAt          time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeReviewed returns true if a review may be attached to the booking
func (b *Booking) CanBeReviewed() bool {
	return b.Status == StatusCompleted
}

// IsPaid returns true if payment for the booking has been captured
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}
