package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/domain"
	getSlots "github.com/proserv/PS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID профессионала"
	msgInvalidDateParams     = "некорректные параметры from/to, ожидается YYYY-MM-DD"
	msgInvalidDateRange      = "некорректный диапазон дат"
	msgDateRangeTooWide      = "слишком широкий диапазон дат"
	msgMissingUserID         = "отсутствует ID пользователя"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /professionals/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateParams)
		return
	}

	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		UserID:         userID,
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrDateRangeTooWide):
			h.logger.Warn("GET /professionals/{id}/slots - Date range too wide: professional_id=%d", professionalID)
			handlers.RespondBadRequest(w, msgDateRangeTooWide)

		case errors.Is(err, getSlots.ErrInvalidDateRange), errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/slots - Invalid request: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /professionals/{id}/slots - Failed to get slots: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/slots - Returned %d slots: professional_id=%d, user_id=%d",
		len(result.Slots), professionalID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
