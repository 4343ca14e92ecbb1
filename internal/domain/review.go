package domain

import "time"

// Review is the client's rating of a completed booking.
// At most one review exists per booking.
type Review struct {
	ID        int64
	BookingID int64
	Rating    int // 1-5
	Comment   string

	// Category sub-ratings, 1-5, optional
	QualityRating         *int
	PunctualityRating     *int
	ProfessionalismRating *int

	CreatedAt time.Time
}
