package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/service/schedule"
	"github.com/proserv/PS-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidProfessionalID = "некорректный ID профессионала"
	msgSlotConflict          = "нельзя убрать слот с активным бронированием"
	msgForbidden             = "доступ запрещен"
	msgMissingUserID         = "отсутствует ID пользователя"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Date  string      `json:"date"` // "2025-10-15"
	Slots []SlotInput `json:"slots"`
}

// SlotInput один слот нового расписания
type SlotInput struct {
	StartTime string  `json:"startTime"` // "10:00"
	Price     float64 `json:"price"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/professionals/{professionalId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /professionals/{id}/slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /professionals/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /professionals/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	slots := make([]models.SlotInput, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, models.SlotInput{StartTime: s.StartTime, Price: s.Price})
	}

	result, err := h.service.ReplaceDay(r.Context(), &models.ReplaceDayRequest{
		ProfessionalID: professionalID,
		ActorID:        userID,
		Date:           req.Date,
		Slots:          slots,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /professionals/{id}/slots - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrSlotConflict):
			h.logger.Warn("PUT /professionals/{id}/slots - Slot conflict: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /professionals/{id}/slots - Invalid input: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /professionals/{id}/slots - Failed: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /professionals/{id}/slots - Schedule replaced: professional_id=%d, date=%s, slots=%d",
		professionalID, req.Date, result.SlotsCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
