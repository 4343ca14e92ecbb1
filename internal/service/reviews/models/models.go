package models

import (
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// CreateReviewRequest запрос на создание отзыва
type CreateReviewRequest struct {
	BookingID int64
	ClientID  int64
	Rating    int
	Comment   string

	QualityRating         *int
	PunctualityRating     *int
	ProfessionalismRating *int
}

// ReviewResponse DTO отзыва для ответа API
type ReviewResponse struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`

	QualityRating         *int `json:"qualityRating,omitempty"`
	PunctualityRating     *int `json:"punctualityRating,omitempty"`
	ProfessionalismRating *int `json:"professionalismRating,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainReview конвертирует доменный отзыв в DTO
func FromDomainReview(review *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:                    review.ID,
		BookingID:             review.BookingID,
		Rating:                review.Rating,
		Comment:               review.Comment,
		QualityRating:         review.QualityRating,
		PunctualityRating:     review.PunctualityRating,
		ProfessionalismRating: review.ProfessionalismRating,
		CreatedAt:             review.CreatedAt,
	}
}
