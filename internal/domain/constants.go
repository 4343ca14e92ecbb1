package domain

// Default workflow/hold settings
const (
	DefaultHoldTTLMinutes    = 10
	DefaultSessionTTLMinutes = 60
)

// Business validation constants
const (
	MinProjectTitleLength = 3
	MaxProjectTitleLength = 120

	MinDescriptionLength = 20
	MaxDescriptionLength = 2000

	MaxCancellationReasonLength = 500
	MaxTransitionMessageLength  = 500

	MinRating = 1
	MaxRating = 5

	MaxReviewCommentLength = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
