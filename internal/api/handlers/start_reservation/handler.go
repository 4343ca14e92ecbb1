package start_reservation

import (
	"errors"
	"net/http"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/service/reservation"
	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgClientsOnly        = "резервирование доступно только клиентам"
)

// StartReservationRequest HTTP request model
type StartReservationRequest struct {
	ProfessionalID int64 `json:"professionalId"`
}

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

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetUserRole(r.Context())
	if role != domain.RoleClient {
		h.logger.Warn("POST /reservations - Non-client role=%s, user_id=%d", role, userID)
		handlers.RespondForbidden(w, msgClientsOnly)
		return
	}

	result, err := h.service.Start(r.Context(), &models.StartRequest{
		ClientID:       userID,
		ProfessionalID: req.ProfessionalID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to start reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Session started: session=%s, user_id=%d", result.SessionID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
