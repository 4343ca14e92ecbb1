package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	confirmReservation "github.com/proserv/PS-BookingService/internal/usecase/confirm_reservation"
)

const (
	msgSessionNotFound = "сессия резервирования не найдена или истекла"
	msgForbidden       = "доступ запрещен"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgIncompleteDraft = "мастер резервирования не завершен"
	msgSlotUnavailable = "выбранный слот недоступен"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{
		SessionID: sessionID,
		ClientID:  userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmReservation.ErrSessionNotFound):
			h.logger.Warn("POST /reservations/{id}/confirm - Session not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, confirmReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/confirm - Access denied: session=%s, user_id=%d", sessionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmReservation.ErrIncompleteDraft):
			h.logger.Warn("POST /reservations/{id}/confirm - Incomplete draft: session=%s", sessionID)
			handlers.RespondBadRequest(w, msgIncompleteDraft)

		case errors.Is(err, confirmReservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations/{id}/confirm - Slot unavailable: session=%s", sessionID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, confirmReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgSessionNotFound)

		default:
			h.logger.Error("POST /reservations/{id}/confirm - Failed to confirm: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/confirm - Booking created: booking_id=%d, session=%s, user_id=%d",
		result.ID, sessionID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
