package create_review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/service/reviews"
	"github.com/proserv/PS-BookingService/internal/service/reviews/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgNotReviewable      = "отзыв доступен только для завершенного бронирования"
	msgAlreadyReviewed    = "отзыв на это бронирование уже существует"
	msgInvalidRating      = "некорректная оценка"
	msgForbidden          = "доступ запрещен"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgClientsOnly        = "отзыв может оставить только клиент"
)

// CreateReviewRequest HTTP request model
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`

	QualityRating         *int `json:"qualityRating,omitempty"`
	PunctualityRating     *int `json:"punctualityRating,omitempty"`
	ProfessionalismRating *int `json:"professionalismRating,omitempty"`
}

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetUserRole(r.Context())
	if role != domain.RoleClient {
		h.logger.Warn("POST /bookings/{id}/review - Non-client role=%s, user_id=%d", role, userID)
		handlers.RespondForbidden(w, msgClientsOnly)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateReviewRequest{
		BookingID:             bookingID,
		ClientID:              userID,
		Rating:                req.Rating,
		Comment:               req.Comment,
		QualityRating:         req.QualityRating,
		PunctualityRating:     req.PunctualityRating,
		ProfessionalismRating: req.ProfessionalismRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/review - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/review - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrNotReviewable):
			h.logger.Warn("POST /bookings/{id}/review - Not reviewable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotReviewable)

		case errors.Is(err, reviews.ErrAlreadyReviewed):
			h.logger.Warn("POST /bookings/{id}/review - Already reviewed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/review - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRating)

		default:
			h.logger.Error("POST /bookings/{id}/review - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/review - Review created: review_id=%d, booking_id=%d, user_id=%d",
		result.ID, bookingID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
