package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgIllegalTransition  = "переход в указанный статус недопустим"
	msgUnauthorizedRole   = "роль не допущена к этому переходу"
	msgMissingReason      = "для этого перехода требуется причина"
	msgSideEffectFailed   = "не удалось выполнить платежную операцию"
	msgForbidden          = "доступ запрещен"
	msgMissingUserID      = "отсутствует ID пользователя"
)

// TransitionBookingRequest HTTP request model
type TransitionBookingRequest struct {
	TargetStatus       string  `json:"targetStatus"`
	Message            *string `json:"message,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/transition - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req TransitionBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/transition - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/transition - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())

	result, err := h.service.RequestTransition(r.Context(), bookingID, &models.TransitionRequest{
		ActorID:            userID,
		ActorRole:          string(role),
		TargetStatus:       req.TargetStatus,
		Message:            req.Message,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/transition - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrIllegalTransition):
			h.logger.Warn("POST /bookings/{id}/transition - Illegal transition: booking_id=%d, target=%s",
				bookingID, req.TargetStatus)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, lifecycle.ErrUnauthorized):
			h.logger.Warn("POST /bookings/{id}/transition - Role not allowed: booking_id=%d, user_id=%d, role=%s",
				bookingID, userID, role)
			handlers.RespondForbidden(w, msgUnauthorizedRole)

		case errors.Is(err, lifecycle.ErrMissingReason):
			h.logger.Warn("POST /bookings/{id}/transition - Missing reason: booking_id=%d, target=%s",
				bookingID, req.TargetStatus)
			handlers.RespondBadRequest(w, msgMissingReason)

		case errors.Is(err, lifecycle.ErrSideEffectFailed):
			h.logger.Error("POST /bookings/{id}/transition - Side effect failed: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgSideEffectFailed)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/transition - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/transition - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/transition - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/transition - Transition applied: booking_id=%d, status=%s, user_id=%d",
		bookingID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
