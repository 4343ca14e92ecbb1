package back_step

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/service/reservation"
)

const (
	msgSessionNotFound = "сессия резервирования не найдена или истекла"
	msgForbidden       = "доступ запрещен"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgAtFirstStep     = "мастер уже на первом шаге"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{sessionId}/back
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/back - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Back(r.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrSessionNotFound):
			h.logger.Warn("POST /reservations/{id}/back - Session not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, reservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/back - Access denied: session=%s, user_id=%d", sessionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservation.ErrInvalidStep):
			h.logger.Warn("POST /reservations/{id}/back - Already at first step: session=%s", sessionID)
			handlers.RespondBadRequest(w, msgAtFirstStep)

		case errors.Is(err, reservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/back - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgSessionNotFound)

		default:
			h.logger.Error("POST /reservations/{id}/back - Failed to go back: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/back - Moved back: session=%s, step=%s", sessionID, result.Step)
	handlers.RespondJSON(w, http.StatusOK, result)
}
