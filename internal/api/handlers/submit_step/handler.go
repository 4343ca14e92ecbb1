package submit_step

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/service/reservation"
	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия резервирования не найдена или истекла"
	msgForbidden          = "доступ запрещен"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidStep        = "шаг не совпадает с текущим шагом мастера"
	msgSlotUnavailable    = "выбранный слот недоступен"
	msgValidationFailed   = "данные шага не прошли валидацию"
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

// Handle POST /api/v1/reservations/{sessionId}/steps
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SubmitStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/steps - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/steps - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.SubmitStep(r.Context(), req.ToServiceRequest(sessionID, userID))
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			h.logger.Warn("POST /reservations/{id}/steps - Validation failed: session=%s, fields=%v", sessionID, verr.Fields)
			handlers.RespondValidationError(w, msgValidationFailed, verr.Fields)

		case errors.Is(err, reservation.ErrSessionNotFound):
			h.logger.Warn("POST /reservations/{id}/steps - Session not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, reservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/steps - Access denied: session=%s, user_id=%d", sessionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservation.ErrInvalidStep):
			h.logger.Warn("POST /reservations/{id}/steps - Invalid step: session=%s, step=%s", sessionID, req.Step)
			handlers.RespondBadRequest(w, msgInvalidStep)

		case errors.Is(err, reservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations/{id}/steps - Slot unavailable: session=%s", sessionID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, reservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/steps - Invalid input: session=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations/{id}/steps - Failed to submit step: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/steps - Step submitted: session=%s, step=%s, next=%s",
		sessionID, req.Step, result.Step)
	handlers.RespondJSON(w, http.StatusOK, result)
}
